package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/middleware"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/integration/stripe"
)

type CheckoutHandler struct {
	stripe stripe.Client
	logger *zap.Logger
}

func NewCheckoutHandler(stripeClient stripe.Client, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{stripe: stripeClient, logger: logger}
}

type CreateCheckoutRequest struct {
	Email string `json:"email"`
}

type CreateCheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// Handle serves POST /create-checkout-session: opens a Stripe subscription
// checkout and hands the session back for the front-end redirect.
func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	sess, err := h.stripe.CreateCheckoutSession(r.Context(), req.Email)
	if err != nil {
		middleware.RecordIntegrationError("stripe")
		h.logger.Error("checkout session creation failed",
			zap.String("email", req.Email),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}

	respondJSON(w, http.StatusOK, CreateCheckoutResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	})
}
