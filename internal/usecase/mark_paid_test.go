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

func newMarkPaidUseCase(store *MockLeadStore, queue usecase.QueueProducerInterface) *usecase.MarkPaidUseCase {
	uc := usecase.NewMarkPaidUseCase(store, queue, zap.NewNop())
	uc.Now = func() time.Time { return t0 }
	return uc
}

func paidTestLead(now time.Time) *entity.Lead {
	lead := newTestLead(entity.StatusPaid)
	lead.PaidAt = &now
	lead.LastUpdated = &now
	return lead
}

func TestMarkPaidPromotesAndQueuesWelcome(t *testing.T) {
	store := new(MockLeadStore)
	queue := new(MockQueueProducer)
	lead := paidTestLead(t0)

	store.On("MarkPaid", mock.Anything, "founder@example.com", t0).Return(lead, nil)
	queue.On("PublishDispatch", mock.Anything, usecase.DispatchPayload{
		Email:  "founder@example.com",
		Kind:   usecase.KindWelcome,
		Origin: "CHECKOUT_CONFIRMED",
	}).Return(nil)

	out, err := newMarkPaidUseCase(store, queue).Execute(context.Background(), usecase.MarkPaidInput{
		Email: "founder@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "User marked as paid successfully", out.Message)
	assert.Equal(t, entity.StatusPaid, out.Signup.Status)
	require.NotNil(t, out.Signup.PaidAt)
	queue.AssertExpectations(t)
}

func TestMarkPaidSucceedsWhenQueueIsDown(t *testing.T) {
	store := new(MockLeadStore)
	queue := new(MockQueueProducer)

	store.On("MarkPaid", mock.Anything, "founder@example.com", t0).Return(paidTestLead(t0), nil)
	queue.On("PublishDispatch", mock.Anything, mock.Anything).
		Return(errors.New("amqp: channel closed"))

	out, err := newMarkPaidUseCase(store, queue).Execute(context.Background(), usecase.MarkPaidInput{
		Email: "founder@example.com",
	})

	// The promotion stands. The sweep delivers the welcome later.
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, out.Signup.Status)
}

func TestMarkPaidWithoutQueue(t *testing.T) {
	store := new(MockLeadStore)
	store.On("MarkPaid", mock.Anything, "founder@example.com", t0).Return(paidTestLead(t0), nil)

	out, err := newMarkPaidUseCase(store, nil).Execute(context.Background(), usecase.MarkPaidInput{
		Email: "founder@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, out.Signup.Status)
}

func TestMarkPaidUnknownLead(t *testing.T) {
	store := new(MockLeadStore)
	store.On("MarkPaid", mock.Anything, "ghost@example.com", t0).
		Return(nil, entity.ErrLeadNotFound)

	_, err := newMarkPaidUseCase(store, nil).Execute(context.Background(), usecase.MarkPaidInput{
		Email: "ghost@example.com",
	})

	require.Error(t, err)
	de, ok := err.(*usecase.DomainError)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeNotFound, de.Code)
}

func TestMarkPaidRequiresEmail(t *testing.T) {
	store := new(MockLeadStore)

	_, err := newMarkPaidUseCase(store, nil).Execute(context.Background(), usecase.MarkPaidInput{})

	require.Error(t, err)
	assert.True(t, usecase.IsDomainError(err))
	store.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}
