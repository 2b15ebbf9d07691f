package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/storage"
)

var t0 = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func newStore(t *testing.T) (*storage.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signups.json")
	return storage.NewFileStore(path), path
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	lead, created, err := store.Upsert(ctx, "founder@example.com", "hero-section", t0)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, entity.StatusEarlyAccess, lead.Status)

	later := t0.Add(time.Hour)
	updated, created, err := store.Upsert(ctx, "founder@example.com", "pricing-page", later)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, lead.ID, updated.ID)
	assert.Equal(t, "pricing-page", updated.Source)
	assert.Equal(t, t0, updated.CreatedAt)
	require.NotNil(t, updated.LastUpdated)
	assert.Equal(t, later, updated.LastUpdated.UTC())
}

func TestGetUnknownEmail(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Get(context.Background(), "ghost@example.com")

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t)

	_, _, err := store.Upsert(ctx, "founder@example.com", "hero-section", t0)
	require.NoError(t, err)
	_, err = store.RecordSent(ctx, "founder@example.com", entity.SequenceWelcome, t0)
	require.NoError(t, err)

	reopened := storage.NewFileStore(path)
	lead, err := reopened.Get(ctx, "founder@example.com")
	require.NoError(t, err)
	assert.True(t, lead.Sequence.WelcomeSent)
	assert.Equal(t, "founder@example.com", lead.Email)
}

func TestMarkPaidResetsFlagsOnce(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, _, err := store.Upsert(ctx, "founder@example.com", "hero-section", t0)
	require.NoError(t, err)
	_, err = store.RecordSent(ctx, "founder@example.com", entity.SequenceWelcome, t0)
	require.NoError(t, err)

	paidAt := t0.Add(time.Hour)
	lead, err := store.MarkPaid(ctx, "founder@example.com", paidAt)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, lead.Status)
	assert.False(t, lead.Sequence.WelcomeSent)
	require.NotNil(t, lead.PaidAt)

	// Second call must not move paidAt or touch the flags.
	_, err = store.RecordSent(ctx, "founder@example.com", entity.SequenceWelcome, paidAt)
	require.NoError(t, err)
	again, err := store.MarkPaid(ctx, "founder@example.com", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, paidAt, again.PaidAt.UTC())
	assert.True(t, again.Sequence.WelcomeSent)
}

func TestMarkPaidUnknownEmail(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.MarkPaid(context.Background(), "ghost@example.com", t0)

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestRecordSentIsWriteOnce(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, _, err := store.Upsert(ctx, "founder@example.com", "hero-section", t0)
	require.NoError(t, err)

	first := t0.Add(time.Minute)
	lead, err := store.RecordSent(ctx, "founder@example.com", entity.SequenceWelcome, first)
	require.NoError(t, err)
	assert.True(t, lead.Sequence.WelcomeSent)
	assert.Equal(t, first, lead.Sequence.WelcomeSentAt.UTC())

	// Re-recording returns the record untouched.
	again, err := store.RecordSent(ctx, "founder@example.com", entity.SequenceWelcome, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, again.Sequence.WelcomeSentAt.UTC())
}

func TestAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, _, err := store.Upsert(ctx, "a@example.com", "hero-section", t0)
	require.NoError(t, err)
	_, _, err = store.Upsert(ctx, "b@example.com", "footer", t0)
	require.NoError(t, err)

	leads, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)

	// Mutating a returned lead must not leak into the store.
	leads[0].Status = entity.StatusPaid
	fresh, err := store.Get(ctx, leads[0].Email)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusEarlyAccess, fresh.Status)
}

func TestFileLayoutMatchesDashboardFormat(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t)

	_, _, err := store.Upsert(ctx, "founder@example.com", "hero-section", t0)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "founder@example.com", raw[0]["email"])
	assert.Equal(t, "hero-section", raw[0]["source"])
	assert.Equal(t, "early-access", raw[0]["status"])
	assert.Contains(t, raw[0], "timestamp")
	assert.Contains(t, raw[0], "emailSequence")
}

func TestConcurrentUpsertsLoseNothing(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	var wg sync.WaitGroup
	emails := []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com", "e@example.com"}
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, _, err := store.Upsert(ctx, email, "hero-section", t0)
			assert.NoError(t, err)
		}(email)
	}
	wg.Wait()

	leads, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, len(emails))
}
