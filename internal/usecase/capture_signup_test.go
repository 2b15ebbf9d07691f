package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

func newCaptureUseCase(store *MockLeadStore) *usecase.CaptureSignupUseCase {
	uc := usecase.NewCaptureSignupUseCase(store, zap.NewNop())
	uc.Now = func() time.Time { return t0 }
	return uc
}

func TestCaptureSignupCreatesNewLead(t *testing.T) {
	store := new(MockLeadStore)
	lead := newTestLead(entity.StatusEarlyAccess)
	store.On("Upsert", mock.Anything, "founder@example.com", "hero-section", t0).
		Return(lead, true, nil)

	out, err := newCaptureUseCase(store).Execute(context.Background(), usecase.CaptureSignupInput{
		Email:  "founder@example.com",
		Source: "hero-section",
	})

	require.NoError(t, err)
	assert.Equal(t, "Signup created successfully", out.Message)
	assert.False(t, out.Updated)
	assert.Same(t, lead, out.Signup)
	store.AssertExpectations(t)
}

func TestCaptureSignupUpdatesExistingLead(t *testing.T) {
	store := new(MockLeadStore)
	lead := newTestLead(entity.StatusEarlyAccess)
	lead.Source = "pricing-page"
	store.On("Upsert", mock.Anything, "founder@example.com", "pricing-page", t0).
		Return(lead, false, nil)

	out, err := newCaptureUseCase(store).Execute(context.Background(), usecase.CaptureSignupInput{
		Email:  "founder@example.com",
		Source: "pricing-page",
	})

	require.NoError(t, err)
	assert.Equal(t, "Signup updated successfully", out.Message)
	assert.True(t, out.Updated)
}

func TestCaptureSignupRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		input usecase.CaptureSignupInput
	}{
		{"missing email", usecase.CaptureSignupInput{Source: "hero-section"}},
		{"malformed email", usecase.CaptureSignupInput{Email: "not-an-email", Source: "hero-section"}},
		{"missing source", usecase.CaptureSignupInput{Email: "founder@example.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(MockLeadStore)

			_, err := newCaptureUseCase(store).Execute(context.Background(), tc.input)

			require.Error(t, err)
			de, ok := err.(*usecase.DomainError)
			require.True(t, ok)
			assert.Equal(t, usecase.CodeValidation, de.Code)
			store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCaptureSignupWrapsStoreFailure(t *testing.T) {
	store := new(MockLeadStore)
	store.On("Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, false, errors.New("disk full"))

	_, err := newCaptureUseCase(store).Execute(context.Background(), usecase.CaptureSignupInput{
		Email:  "founder@example.com",
		Source: "hero-section",
	})

	require.Error(t, err)
	te, ok := err.(*usecase.TechnicalError)
	require.True(t, ok)
	assert.Equal(t, usecase.CodePersistence, te.Code)
}
