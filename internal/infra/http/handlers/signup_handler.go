package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/middleware"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

type SignupHandler struct {
	captureUC   *usecase.CaptureSignupUseCase
	store       entity.LeadStoreInterface
	rateLimiter *RateLimiter
}

func NewSignupHandler(captureUC *usecase.CaptureSignupUseCase, store entity.LeadStoreInterface) *SignupHandler {
	return &SignupHandler{
		captureUC:   captureUC,
		store:       store,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// HandleCapture serves POST /signups.
func (h *SignupHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		respondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var input usecase.CaptureSignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	output, err := h.captureUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordSignupCaptured(input.Source, "error")
		respondUsecaseError(w, err)
		return
	}

	if output.Updated {
		middleware.RecordSignupCaptured(input.Source, "updated")
	} else {
		middleware.RecordSignupCaptured(input.Source, "created")
	}
	respondJSON(w, http.StatusOK, output)
}

type SignupAnalytics struct {
	Total         int            `json:"total"`
	EarlyAccess   int            `json:"earlyAccess"`
	Paid          int            `json:"paid"`
	BySource      map[string]int `json:"bySource"`
	RecentSignups []*entity.Lead `json:"recentSignups"`
}

type ListSignupsResponse struct {
	Signups   []*entity.Lead  `json:"signups"`
	Analytics SignupAnalytics `json:"analytics"`
}

// HandleList serves GET /signups: every lead plus the aggregates the admin
// dashboard renders.
func (h *SignupHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.All(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	analytics := SignupAnalytics{
		Total:    len(leads),
		BySource: map[string]int{},
	}
	for _, lead := range leads {
		switch lead.Status {
		case entity.StatusEarlyAccess:
			analytics.EarlyAccess++
		case entity.StatusPaid:
			analytics.Paid++
		}
		analytics.BySource[lead.Source]++
	}

	recent := make([]*entity.Lead, len(leads))
	copy(recent, leads)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}
	analytics.RecentSignups = recent

	respondJSON(w, http.StatusOK, ListSignupsResponse{
		Signups:   leads,
		Analytics: analytics,
	})
}
