package usecase

import (
	"time"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
)

// EmailKind is the caller-facing name of a lifecycle email, as used by the
// POST /send-email contract.
type EmailKind string

const (
	KindWelcome    EmailKind = "welcome"
	KindFollowUp   EmailKind = "follow-up"
	KindOnboarding EmailKind = "onboarding"
)

// SequenceKeyFor maps a kind to the flag it sets.
func SequenceKeyFor(kind EmailKind) (entity.SequenceKey, bool) {
	switch kind {
	case KindWelcome:
		return entity.SequenceWelcome, true
	case KindFollowUp:
		return entity.SequenceFollowUp, true
	case KindOnboarding:
		return entity.SequenceOnboarding, true
	}
	return "", false
}

// Decision is the sequencing engine's verdict: which email is due now.
type Decision struct {
	Kind     EmailKind
	Key      entity.SequenceKey
	Template TemplateName
	Reason   string
}

const millisPerDay = 24 * 60 * 60 * 1000

// DaysSince floors the millisecond difference between now and t into whole
// days. This is deliberately not a calendar-day comparison: a signup at
// 23:59 is still "day 0" for the next 24 hours. The marketing sequence was
// tuned against this arithmetic, so keep the floor division as is.
//
// The floor matters for negative differences too: a clock behind the
// record's createdAt yields day -1, not day 0, so no rule fires early.
func DaysSince(t, now time.Time) int {
	ms := now.Sub(t).Milliseconds()
	if ms < 0 {
		ms -= millisPerDay - 1
	}
	return int(ms / millisPerDay)
}

// Decide is the sequencing engine. Pure: no clock, no store, no sends.
// Rules are evaluated in fixed priority order and at most one fires per
// call; the next rule gets its chance on the following sweep.
//
// Known gap, kept on purpose: welcome fires only while daysSince == 0, so a
// lead first swept after day 0 never gets a welcome through the sweep path.
// Welcome delivery relies on the immediate on-signup dispatch.
func Decide(lead *entity.Lead, now time.Time) *Decision {
	days := DaysSince(lead.CreatedAt, now)

	if !lead.Sequence.WelcomeSent && days == 0 {
		return &Decision{
			Kind:     KindWelcome,
			Key:      entity.SequenceWelcome,
			Template: WelcomeTemplateFor(lead.Status),
			Reason:   "New signup",
		}
	}

	if lead.Status == entity.StatusEarlyAccess && !lead.Sequence.FollowUpSent && days >= 3 {
		return &Decision{
			Kind:     KindFollowUp,
			Key:      entity.SequenceFollowUp,
			Template: TemplateEarlyAccessFollowUp,
			Reason:   "3-day follow-up",
		}
	}

	if lead.Status == entity.StatusPaid && !lead.Sequence.OnboardingSent && days >= 7 {
		return &Decision{
			Kind:     KindOnboarding,
			Key:      entity.SequenceOnboarding,
			Template: TemplateOnboardingReminder,
			Reason:   "7-day onboarding reminder",
		}
	}

	return nil
}
