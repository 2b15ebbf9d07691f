package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/middleware"
)

// MessageGenerator is the demo's outreach-message capability.
type MessageGenerator interface {
	GenerateMessage(ctx context.Context, targetIndustry, location string) (string, error)
}

type GenerateHandler struct {
	generator MessageGenerator
	logger    *zap.Logger
}

func NewGenerateHandler(generator MessageGenerator, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{generator: generator, logger: logger}
}

type GenerateMessageRequest struct {
	TargetIndustry string `json:"targetIndustry"`
	Location       string `json:"location"`
}

type GenerateMessageResponse struct {
	Message string `json:"message"`
}

// Handle serves POST /generate-message for the landing-page demo.
func (h *GenerateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.TargetIndustry == "" || req.Location == "" {
		respondError(w, http.StatusBadRequest, "Target industry and location are required")
		return
	}

	if h.generator == nil {
		respondError(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}

	message, err := h.generator.GenerateMessage(r.Context(), req.TargetIndustry, req.Location)
	if err != nil {
		middleware.RecordIntegrationError("openai")
		h.logger.Error("message generation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate message")
		return
	}

	respondJSON(w, http.StatusOK, GenerateMessageResponse{Message: message})
}
