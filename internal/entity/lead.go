package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusEarlyAccess Status = "early-access"
	StatusPaid        Status = "paid"
)

// SequenceKey names one email of the lifecycle sequence.
type SequenceKey string

const (
	SequenceWelcome    SequenceKey = "welcomeSent"
	SequenceFollowUp   SequenceKey = "followUpSent"
	SequenceOnboarding SequenceKey = "onboardingSent"
)

// EmailSequence tracks which lifecycle emails a lead has already received.
// A *SentAt timestamp is set exactly when its flag flips to true.
type EmailSequence struct {
	WelcomeSent      bool       `json:"welcomeSent"`
	WelcomeSentAt    *time.Time `json:"welcomeSentAt,omitempty"`
	FollowUpSent     bool       `json:"followUpSent"`
	FollowUpSentAt   *time.Time `json:"followUpSentAt,omitempty"`
	OnboardingSent   bool       `json:"onboardingSent"`
	OnboardingSentAt *time.Time `json:"onboardingSentAt,omitempty"`
}

// Sent reports whether the email named by key was already delivered.
func (s EmailSequence) Sent(key SequenceKey) bool {
	switch key {
	case SequenceWelcome:
		return s.WelcomeSent
	case SequenceFollowUp:
		return s.FollowUpSent
	case SequenceOnboarding:
		return s.OnboardingSent
	}
	return false
}

// MarkSent flips the named flag and stamps it. Flags only ever go
// false -> true here; resets happen only through Lead.MarkPaid.
func (s *EmailSequence) MarkSent(key SequenceKey, now time.Time) {
	switch key {
	case SequenceWelcome:
		s.WelcomeSent = true
		s.WelcomeSentAt = &now
	case SequenceFollowUp:
		s.FollowUpSent = true
		s.FollowUpSentAt = &now
	case SequenceOnboarding:
		s.OnboardingSent = true
		s.OnboardingSentAt = &now
	}
}

// Lead is one captured email address with its lifecycle state.
//
// JSON tags match the signups.json layout consumed by the admin dashboard,
// so the file store stays readable by existing tooling.
type Lead struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	Source      string        `json:"source"`
	CreatedAt   time.Time     `json:"timestamp"`
	LastUpdated *time.Time    `json:"lastUpdated,omitempty"`
	Status      Status        `json:"status"`
	PaidAt      *time.Time    `json:"paidAt,omitempty"`
	Sequence    EmailSequence `json:"emailSequence"`
}

// Factory
func NewLead(email, source string, now time.Time) (*Lead, error) {
	lead := &Lead{
		ID:        uuid.New().String(),
		Email:     email,
		Source:    source,
		CreatedAt: now,
		Status:    StatusEarlyAccess,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Email == "" {
		return errors.New("email is required")
	}
	if l.Source == "" {
		return errors.New("source is required")
	}
	return nil
}

// Touch refreshes the acquisition source on a repeat signup. Identity,
// status, paidAt and the sequence flags are preserved.
func (l *Lead) Touch(source string, now time.Time) {
	l.Source = source
	l.LastUpdated = &now
}

// MarkPaid promotes the lead to the paid track. The transition is forward
// only and fires once: the webhook and the success-page redirect both call
// this, and the second caller must not reset the sequence again or re-stamp
// paidAt. All three sequence flags are reset so the paid-user welcome
// sequence starts fresh.
func (l *Lead) MarkPaid(now time.Time) {
	if l.Status == StatusPaid {
		return
	}
	l.Status = StatusPaid
	l.PaidAt = &now
	l.LastUpdated = &now
	l.Sequence = EmailSequence{}
}

// ErrLeadNotFound is returned by stores when no record exists for an email.
var ErrLeadNotFound = errors.New("lead not found")

// LeadStoreInterface is the durable mapping from email to lead record.
// Implementations must serialize mutations: RecordSent re-checks the flag
// under the store's own lock so two racing dispatchers cannot both claim
// the same transition.
type LeadStoreInterface interface {
	// Upsert creates the record on first signup or refreshes source and
	// lastUpdated on a repeat one. Reports whether the record was created.
	Upsert(ctx context.Context, email, source string, now time.Time) (*Lead, bool, error)

	// Get returns the record for email or ErrLeadNotFound.
	Get(ctx context.Context, email string) (*Lead, error)

	// MarkPaid promotes the lead and resets the sequence flags.
	MarkPaid(ctx context.Context, email string, now time.Time) (*Lead, error)

	// RecordSent sets the named flag and its timestamp. Setting an
	// already-true flag is a no-op returning the current record.
	RecordSent(ctx context.Context, email string, key SequenceKey, now time.Time) (*Lead, error)

	// All returns every record. Ordering is unspecified.
	All(ctx context.Context) ([]*Lead, error)
}
