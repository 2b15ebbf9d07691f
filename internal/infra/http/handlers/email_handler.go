package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/middleware"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

type EmailHandler struct {
	dispatcher *usecase.Dispatcher
}

func NewEmailHandler(dispatcher *usecase.Dispatcher) *EmailHandler {
	return &EmailHandler{dispatcher: dispatcher}
}

type SendEmailRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type SendEmailResponse struct {
	Message     string        `json:"message"`
	AlreadySent bool          `json:"alreadySent,omitempty"`
	EmailType   string        `json:"emailType,omitempty"`
	UserStatus  entity.Status `json:"userStatus,omitempty"`
	Reason      string        `json:"reason,omitempty"`
}

// HandleSend serves POST /send-email: immediate dispatch of one named
// lifecycle email. The sequencing engine still decides whether the email
// is due; naming a type does not bypass its timing rules.
func (h *EmailHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Type == "" {
		respondError(w, http.StatusBadRequest, "Email and type are required")
		return
	}

	result, err := h.dispatcher.SendNamed(r.Context(), req.Email, usecase.EmailKind(req.Type))
	if err != nil {
		middleware.RecordEmailDispatch(req.Type, "error")
		respondUsecaseError(w, err)
		return
	}

	if !result.Sent {
		middleware.RecordEmailDispatch(req.Type, result.Reason)
		if result.Reason == usecase.ReasonAlreadySent {
			respondJSON(w, http.StatusOK, SendEmailResponse{
				Message:     "Email already sent",
				AlreadySent: true,
			})
			return
		}
		respondJSON(w, http.StatusOK, SendEmailResponse{
			Message: "Email not due",
			Reason:  result.Reason,
		})
		return
	}

	middleware.RecordEmailDispatch(req.Type, "sent")
	respondJSON(w, http.StatusOK, SendEmailResponse{
		Message:    "Email sent successfully",
		EmailType:  string(result.Kind),
		UserStatus: result.Lead.Status,
	})
}

type DryRunResponse struct {
	EmailsToSend []usecase.DueEmail `json:"emailsToSend"`
	Total        int                `json:"total"`
}

// HandleDryRun serves GET /send-email: lists what a sweep would send right
// now, without sending anything.
func (h *EmailHandler) HandleDryRun(w http.ResponseWriter, r *http.Request) {
	due, err := h.dispatcher.DueLeads(r.Context())
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DryRunResponse{
		EmailsToSend: due,
		Total:        len(due),
	})
}
