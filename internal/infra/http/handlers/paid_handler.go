package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/middleware"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

type PaidHandler struct {
	markPaidUC *usecase.MarkPaidUseCase
}

func NewPaidHandler(markPaidUC *usecase.MarkPaidUseCase) *PaidHandler {
	return &PaidHandler{markPaidUC: markPaidUC}
}

// Handle serves POST /mark-paid, called by the success page after the
// Stripe redirect. The webhook path converges on the same usecase; the
// promotion only fires once, so the second caller is a no-op.
func (h *PaidHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.MarkPaidInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	output, err := h.markPaidUC.Execute(r.Context(), input)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	middleware.RecordLeadMarkedPaid()
	respondJSON(w, http.StatusOK, output)
}
