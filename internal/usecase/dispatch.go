package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
)

// Send outcome reasons, as reported to callers and the sweep summary.
const (
	ReasonSent        = "sent"
	ReasonNotDue      = "not-due"
	ReasonAlreadySent = "already-sent"
	ReasonSendFailed  = "send-failed"
)

type SendResult struct {
	Sent     bool         `json:"sent"`
	Reason   string       `json:"reason"`
	Kind     EmailKind    `json:"kind,omitempty"`
	Template TemplateName `json:"template,omitempty"`
	Lead     *entity.Lead `json:"-"`
}

type SweepResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// DueEmail is one entry of the dry-run listing (GET /send-email).
type DueEmail struct {
	Email  string    `json:"email"`
	Kind   EmailKind `json:"type"`
	Reason string    `json:"reason"`
}

// Dispatcher orchestrates load -> decide -> send -> record for every entry
// point (immediate on-signup dispatch, administrative resend, queue worker,
// batch sweep). All of them go through the same sendDecision primitive, so
// the already-sent and failure semantics cannot drift between triggers.
type Dispatcher struct {
	Store       entity.LeadStoreInterface
	Email       EmailService
	Logger      *zap.Logger
	Now         Clock
	SendTimeout time.Duration
}

func NewDispatcher(store entity.LeadStoreInterface, email EmailService, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		Store:       store,
		Email:       email,
		Logger:      logger,
		Now:         time.Now,
		SendTimeout: 15 * time.Second,
	}
}

// SendIfDue runs the sequencing engine for one lead and delivers the email
// it picks, if any. On send failure nothing is written, so the lead stays
// eligible for the next sweep.
func (d *Dispatcher) SendIfDue(ctx context.Context, lead *entity.Lead) (SendResult, error) {
	decision := Decide(lead, d.Now())
	if decision == nil {
		return SendResult{Sent: false, Reason: ReasonNotDue, Lead: lead}, nil
	}

	// Re-check between evaluation and send. Another path may have won the
	// race for this flag.
	if lead.Sequence.Sent(decision.Key) {
		return SendResult{Sent: false, Reason: ReasonAlreadySent, Kind: decision.Kind, Lead: lead}, nil
	}

	return d.sendDecision(ctx, lead, decision)
}

// SendNamed is the immediate-dispatch entry point (POST /send-email): the
// caller names which email it expects, but the engine still decides whether
// that email is due. A brand-new signup always has daysSince == 0, which is
// the only reason the welcome works here; there is no timing bypass.
func (d *Dispatcher) SendNamed(ctx context.Context, email string, kind EmailKind) (SendResult, error) {
	key, ok := SequenceKeyFor(kind)
	if !ok {
		return SendResult{}, NewValidationError(fmt.Sprintf("invalid email type %q", kind))
	}

	lead, err := d.Store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return SendResult{}, NewNotFoundError("user not found")
		}
		return SendResult{}, NewPersistenceError("failed to load lead", err)
	}

	if lead.Sequence.Sent(key) {
		return SendResult{Sent: false, Reason: ReasonAlreadySent, Kind: kind, Lead: lead}, nil
	}

	decision := Decide(lead, d.Now())
	if decision == nil || decision.Kind != kind {
		return SendResult{Sent: false, Reason: ReasonNotDue, Kind: kind, Lead: lead}, nil
	}

	return d.sendDecision(ctx, lead, decision)
}

// Sweep walks every lead and sends whatever is due. Failures are isolated
// per lead: a dead SMTP connection for one address never rolls back or
// blocks the others. State is persisted per lead as part of sendDecision,
// so a crash mid-sweep loses nothing already sent.
func (d *Dispatcher) Sweep(ctx context.Context) (SweepResult, error) {
	leads, err := d.Store.All(ctx)
	if err != nil {
		return SweepResult{}, NewPersistenceError("failed to load leads", err)
	}

	var result SweepResult
	for _, lead := range leads {
		res, err := d.SendIfDue(ctx, lead)
		switch {
		case err != nil:
			result.Failed++
			d.Logger.Warn("sweep: dispatch failed",
				zap.String("email", lead.Email),
				zap.Error(err))
		case res.Sent:
			result.Sent++
			d.Logger.Info("sweep: email sent",
				zap.String("email", lead.Email),
				zap.String("kind", string(res.Kind)),
				zap.String("status", string(lead.Status)))
		default:
			result.Skipped++
		}
	}

	return result, nil
}

// DueLeads lists what a sweep would send right now, without sending.
func (d *Dispatcher) DueLeads(ctx context.Context) ([]DueEmail, error) {
	leads, err := d.Store.All(ctx)
	if err != nil {
		return nil, NewPersistenceError("failed to load leads", err)
	}

	due := []DueEmail{}
	now := d.Now()
	for _, lead := range leads {
		if decision := Decide(lead, now); decision != nil {
			due = append(due, DueEmail{
				Email:  lead.Email,
				Kind:   decision.Kind,
				Reason: decision.Reason,
			})
		}
	}

	return due, nil
}

func (d *Dispatcher) sendDecision(ctx context.Context, lead *entity.Lead, decision *Decision) (SendResult, error) {
	tmpl := Template(decision.Template)
	htmlBody := strings.ReplaceAll(tmpl.Body, "\n", "<br>")

	sendCtx, cancel := context.WithTimeout(ctx, d.SendTimeout)
	defer cancel()

	if err := d.Email.Send(sendCtx, lead.Email, tmpl.Subject, tmpl.Body, htmlBody); err != nil {
		d.Logger.Error("email send failed",
			zap.String("email", lead.Email),
			zap.String("kind", string(decision.Kind)),
			zap.Error(err))
		return SendResult{Sent: false, Reason: ReasonSendFailed, Kind: decision.Kind, Lead: lead},
			NewSendFailureError("failed to send email", err)
	}

	// The write happens before success is reported. A flag set in memory
	// but not persisted would double-send after a restart.
	updated, err := d.Store.RecordSent(ctx, lead.Email, decision.Key, d.Now())
	if err != nil {
		return SendResult{Sent: false, Reason: ReasonSendFailed, Kind: decision.Kind, Lead: lead},
			NewPersistenceError("email sent but flag not persisted", err)
	}
	*lead = *updated

	return SendResult{
		Sent:     true,
		Reason:   ReasonSent,
		Kind:     decision.Kind,
		Template: decision.Template,
		Lead:     updated,
	}, nil
}
