package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
)

type MarkPaidInput struct {
	Email string `json:"email"`
}

type MarkPaidOutput struct {
	Message string       `json:"message"`
	Signup  *entity.Lead `json:"signup"`
}

// MarkPaidUseCase promotes a lead to paid after checkout confirmation and
// hands the paid-user welcome to the dispatch queue. The promotion itself
// is the source of truth; a queue outage only delays the welcome email,
// which the next sweep picks up anyway.
type MarkPaidUseCase struct {
	Store  entity.LeadStoreInterface
	Queue  QueueProducerInterface
	Logger *zap.Logger
	Now    Clock
}

func NewMarkPaidUseCase(store entity.LeadStoreInterface, queue QueueProducerInterface, logger *zap.Logger) *MarkPaidUseCase {
	return &MarkPaidUseCase{
		Store:  store,
		Queue:  queue,
		Logger: logger,
		Now:    time.Now,
	}
}

func (uc *MarkPaidUseCase) Execute(ctx context.Context, input MarkPaidInput) (*MarkPaidOutput, error) {
	if input.Email == "" {
		return nil, NewValidationError("email is required")
	}

	lead, err := uc.Store.MarkPaid(ctx, input.Email, uc.Now())
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewPersistenceError("failed to mark lead as paid", err)
	}

	uc.Logger.Info("lead marked as paid",
		zap.String("email", lead.Email),
		zap.Timep("paidAt", lead.PaidAt))

	// Marking paid resets the sequence flags, so the freshly-promoted lead
	// is due for the paid welcome right away. Queue it for the worker; on
	// failure just log, the sweep will deliver it later.
	if uc.Queue != nil {
		payload := DispatchPayload{
			Email:  lead.Email,
			Kind:   KindWelcome,
			Origin: "CHECKOUT_CONFIRMED",
		}
		if err := uc.Queue.PublishDispatch(ctx, payload); err != nil {
			uc.Logger.Warn("paid in store but welcome dispatch not queued",
				zap.String("email", lead.Email),
				zap.Error(err))
		}
	}

	return &MarkPaidOutput{
		Message: "User marked as paid successfully",
		Signup:  lead,
	}, nil
}
