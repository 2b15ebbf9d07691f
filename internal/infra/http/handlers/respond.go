package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondUsecaseError maps the usecase error taxonomy onto HTTP statuses:
// NotFound 404, Validation 400, SendFailure 502 (the upstream SMTP server
// failed, not this service), everything else technical 500.
func respondUsecaseError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		switch de.Code {
		case usecase.CodeNotFound:
			respondError(w, http.StatusNotFound, de.Message)
		case usecase.CodeValidation:
			respondError(w, http.StatusBadRequest, de.Message)
		default:
			respondError(w, http.StatusBadRequest, de.Message)
		}
		return
	}

	if te, ok := err.(*usecase.TechnicalError); ok {
		if te.Code == usecase.CodeSendFailure {
			respondError(w, http.StatusBadGateway, te.Message)
			return
		}
		respondError(w, http.StatusInternalServerError, te.Message)
		return
	}

	respondError(w, http.StatusInternalServerError, "Internal server error")
}
