package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
)

type CaptureSignupInput struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type CaptureSignupOutput struct {
	Message string       `json:"message"`
	Updated bool         `json:"updated"`
	Signup  *entity.Lead `json:"signup"`
}

// CaptureSignupUseCase records a landing-page signup. Calling it twice with
// the same email refreshes the existing record instead of duplicating it.
type CaptureSignupUseCase struct {
	Store  entity.LeadStoreInterface
	Logger *zap.Logger
	Now    Clock
}

func NewCaptureSignupUseCase(store entity.LeadStoreInterface, logger *zap.Logger) *CaptureSignupUseCase {
	return &CaptureSignupUseCase{
		Store:  store,
		Logger: logger,
		Now:    time.Now,
	}
}

func (uc *CaptureSignupUseCase) Execute(ctx context.Context, input CaptureSignupInput) (*CaptureSignupOutput, error) {
	if errs := ValidateCaptureSignupInput(input); len(errs) > 0 {
		return nil, NewValidationError(errs[0].Error())
	}

	lead, isNew, err := uc.Store.Upsert(ctx, input.Email, input.Source, uc.Now())
	if err != nil {
		return nil, NewPersistenceError("failed to persist signup", err)
	}

	if isNew {
		uc.Logger.Info("new signup captured",
			zap.String("email", lead.Email),
			zap.String("source", lead.Source))
		return &CaptureSignupOutput{
			Message: "Signup created successfully",
			Updated: false,
			Signup:  lead,
		}, nil
	}

	uc.Logger.Info("existing signup updated",
		zap.String("email", lead.Email),
		zap.String("source", lead.Source))
	return &CaptureSignupOutput{
		Message: "Signup updated successfully",
		Updated: true,
		Signup:  lead,
	}, nil
}
