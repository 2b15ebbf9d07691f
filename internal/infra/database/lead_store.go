package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
)

// LeadStore is the Postgres-backed lead store. Every mutation is a single
// atomic statement, so concurrent API and sweep processes cannot lose each
// other's writes the way whole-file rewrites can.
type LeadStore struct {
	DB *sql.DB
}

func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{DB: db}
}

const leadColumns = `id, email, source, created_at, last_updated, status, paid_at,
	welcome_sent, welcome_sent_at, follow_up_sent, follow_up_sent_at,
	onboarding_sent, onboarding_sent_at`

func (s *LeadStore) Upsert(ctx context.Context, email, source string, now time.Time) (*entity.Lead, bool, error) {
	if email == "" {
		return nil, false, errors.New("email is required")
	}
	if source == "" {
		return nil, false, errors.New("source is required")
	}

	// xmax = 0 only holds for freshly inserted rows, which is how the
	// single round trip reports created-vs-updated.
	query := fmt.Sprintf(`
		INSERT INTO leads (id, email, source, created_at, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email)
		DO UPDATE SET
			source = EXCLUDED.source,
			last_updated = $4
		RETURNING %s, (xmax = 0) AS inserted
	`, leadColumns)

	var lead entity.Lead
	var isNew bool
	row := s.DB.QueryRowContext(ctx, query, uuid.New().String(), email, source, now, entity.StatusEarlyAccess)
	if err := scanLead(row, &lead, &isNew); err != nil {
		return nil, false, fmt.Errorf("upsert lead: %w", err)
	}
	return &lead, isNew, nil
}

func (s *LeadStore) Get(ctx context.Context, email string) (*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE email = $1`, leadColumns)

	var lead entity.Lead
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := scanLead(row, &lead); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &lead, nil
}

func (s *LeadStore) MarkPaid(ctx context.Context, email string, now time.Time) (*entity.Lead, error) {
	// The status guard makes the promotion fire once: the webhook and the
	// success-page redirect both call this, and only the first resets the
	// sequence and stamps paid_at.
	query := fmt.Sprintf(`
		UPDATE leads SET
			status = $2,
			paid_at = $3,
			last_updated = $3,
			welcome_sent = FALSE, welcome_sent_at = NULL,
			follow_up_sent = FALSE, follow_up_sent_at = NULL,
			onboarding_sent = FALSE, onboarding_sent_at = NULL
		WHERE email = $1 AND status <> $2
		RETURNING %s
	`, leadColumns)

	var lead entity.Lead
	row := s.DB.QueryRowContext(ctx, query, email, entity.StatusPaid, now)
	err := scanLead(row, &lead)
	if err == nil {
		return &lead, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mark paid: %w", err)
	}

	// No row updated: already paid (no-op) or missing.
	return s.Get(ctx, email)
}

// sequenceColumns whitelists the flag columns; the key never reaches SQL
// as raw input.
var sequenceColumns = map[entity.SequenceKey][2]string{
	entity.SequenceWelcome:    {"welcome_sent", "welcome_sent_at"},
	entity.SequenceFollowUp:   {"follow_up_sent", "follow_up_sent_at"},
	entity.SequenceOnboarding: {"onboarding_sent", "onboarding_sent_at"},
}

func (s *LeadStore) RecordSent(ctx context.Context, email string, key entity.SequenceKey, now time.Time) (*entity.Lead, error) {
	cols, ok := sequenceColumns[key]
	if !ok {
		return nil, fmt.Errorf("unknown sequence key %q", key)
	}

	// The flag guard in the WHERE clause makes the false->true transition
	// atomic: of two racing dispatchers exactly one gets a row back.
	query := fmt.Sprintf(`
		UPDATE leads SET
			%s = TRUE,
			%s = $2,
			last_updated = $2
		WHERE email = $1 AND %s = FALSE
		RETURNING %s
	`, cols[0], cols[1], cols[0], leadColumns)

	var lead entity.Lead
	row := s.DB.QueryRowContext(ctx, query, email, now)
	err := scanLead(row, &lead)
	if err == nil {
		return &lead, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record sent: %w", err)
	}

	// No row updated: either the flag was already set (no-op) or the lead
	// does not exist. Get distinguishes the two.
	return s.Get(ctx, email)
}

func (s *LeadStore) All(ctx context.Context) ([]*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads`, leadColumns)

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		var lead entity.Lead
		if err := scanLead(rows, &lead); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, &lead)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner, lead *entity.Lead, extra ...any) error {
	dest := []any{
		&lead.ID,
		&lead.Email,
		&lead.Source,
		&lead.CreatedAt,
		&lead.LastUpdated,
		&lead.Status,
		&lead.PaidAt,
		&lead.Sequence.WelcomeSent,
		&lead.Sequence.WelcomeSentAt,
		&lead.Sequence.FollowUpSent,
		&lead.Sequence.FollowUpSentAt,
		&lead.Sequence.OnboardingSent,
		&lead.Sequence.OnboardingSentAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}
