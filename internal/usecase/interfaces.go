package usecase

import (
	"context"
	"time"
)

// EmailService is the external send capability. Implementations: SMTP
// (gomail) and the log-only fallback used when no SMTP host is configured.
type EmailService interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// DispatchPayload is the message published after a payment confirmation so
// the queue worker delivers the paid-user welcome out of band.
type DispatchPayload struct {
	Email  string    `json:"email"`
	Kind   EmailKind `json:"kind"`
	Origin string    `json:"origin"`
}

type QueueProducerInterface interface {
	PublishDispatch(ctx context.Context, payload DispatchPayload) error
}

// Clock is injected everywhere a decision depends on wall time, so tests
// pin "now" instead of sleeping.
type Clock func() time.Time
