package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
)

var t0 = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func TestNewLead(t *testing.T) {
	lead, err := entity.NewLead("founder@example.com", "hero-section", t0)

	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "founder@example.com", lead.Email)
	assert.Equal(t, "hero-section", lead.Source)
	assert.Equal(t, entity.StatusEarlyAccess, lead.Status)
	assert.Equal(t, t0, lead.CreatedAt)
	assert.Nil(t, lead.PaidAt)
	assert.False(t, lead.Sequence.WelcomeSent)
}

func TestNewLeadValidation(t *testing.T) {
	_, err := entity.NewLead("", "hero-section", t0)
	assert.EqualError(t, err, "email is required")

	_, err = entity.NewLead("founder@example.com", "", t0)
	assert.EqualError(t, err, "source is required")
}

func TestTouchPreservesIdentityAndStatus(t *testing.T) {
	lead, err := entity.NewLead("founder@example.com", "hero-section", t0)
	require.NoError(t, err)
	id := lead.ID
	lead.Sequence.MarkSent(entity.SequenceWelcome, t0)

	later := t0.Add(48 * time.Hour)
	lead.Touch("pricing-page", later)

	assert.Equal(t, id, lead.ID)
	assert.Equal(t, "pricing-page", lead.Source)
	assert.Equal(t, t0, lead.CreatedAt)
	require.NotNil(t, lead.LastUpdated)
	assert.Equal(t, later, *lead.LastUpdated)
	assert.True(t, lead.Sequence.WelcomeSent)
}

func TestMarkPaidResetsSequence(t *testing.T) {
	lead, err := entity.NewLead("founder@example.com", "hero-section", t0)
	require.NoError(t, err)
	lead.Sequence.MarkSent(entity.SequenceWelcome, t0)
	lead.Sequence.MarkSent(entity.SequenceFollowUp, t0.Add(72*time.Hour))

	paidAt := t0.Add(5 * 24 * time.Hour)
	lead.MarkPaid(paidAt)

	assert.Equal(t, entity.StatusPaid, lead.Status)
	require.NotNil(t, lead.PaidAt)
	assert.Equal(t, paidAt, *lead.PaidAt)
	assert.Equal(t, entity.EmailSequence{}, lead.Sequence)
}

// The webhook and the success-page redirect can both mark the same lead
// paid. The second call must not re-stamp paidAt or wipe the flags again.
func TestMarkPaidIsIdempotent(t *testing.T) {
	lead, err := entity.NewLead("founder@example.com", "hero-section", t0)
	require.NoError(t, err)

	first := t0.Add(time.Hour)
	lead.MarkPaid(first)
	lead.Sequence.MarkSent(entity.SequenceWelcome, first)

	lead.MarkPaid(t0.Add(2 * time.Hour))

	assert.Equal(t, first, *lead.PaidAt)
	assert.True(t, lead.Sequence.WelcomeSent)
}

func TestSequenceSentAndMarkSent(t *testing.T) {
	var seq entity.EmailSequence

	for _, key := range []entity.SequenceKey{
		entity.SequenceWelcome,
		entity.SequenceFollowUp,
		entity.SequenceOnboarding,
	} {
		assert.False(t, seq.Sent(key))
		seq.MarkSent(key, t0)
		assert.True(t, seq.Sent(key))
	}

	assert.Equal(t, t0, *seq.WelcomeSentAt)
	assert.Equal(t, t0, *seq.FollowUpSentAt)
	assert.Equal(t, t0, *seq.OnboardingSentAt)
	assert.False(t, seq.Sent(entity.SequenceKey("unknown")))
}
