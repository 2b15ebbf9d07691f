package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/middleware"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/integration/stripe"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

type WebhookHandler struct {
	stripe     stripe.Client
	markPaidUC *usecase.MarkPaidUseCase
	logger     *zap.Logger
}

func NewWebhookHandler(stripeClient stripe.Client, markPaidUC *usecase.MarkPaidUseCase, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		stripe:     stripeClient,
		markPaidUC: markPaidUC,
		logger:     logger,
	}
}

// Handle serves POST /webhook. Stripe retries anything that is not a 2xx,
// so only signature failures get a 400; a lead we cannot match is logged
// and acknowledged rather than retried forever.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	event, err := h.stripe.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		middleware.RecordIntegrationError("stripe")
		h.logger.Warn("webhook signature rejected", zap.Error(err))
		respondError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	if event.Type != "checkout.session.completed" {
		w.WriteHeader(http.StatusOK)
		return
	}

	email, err := stripe.ExtractCheckoutEmail(event)
	if err != nil {
		h.logger.Error("webhook: no email on completed session",
			zap.String("event", event.ID),
			zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	if _, err := h.markPaidUC.Execute(r.Context(), usecase.MarkPaidInput{Email: email}); err != nil {
		if usecase.IsDomainError(err) {
			// Paid through Stripe without ever signing up. Nothing to
			// promote; log it for manual follow-up.
			h.logger.Warn("webhook: paid email has no lead record",
				zap.String("email", email))
			w.WriteHeader(http.StatusOK)
			return
		}
		h.logger.Error("webhook: mark paid failed",
			zap.String("email", email),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to process event")
		return
	}

	middleware.RecordLeadMarkedPaid()
	w.WriteHeader(http.StatusOK)
}
