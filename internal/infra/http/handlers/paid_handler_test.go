package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/handlers"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/storage"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

func newPaidFixture(t *testing.T) (*handlers.PaidHandler, *storage.FileStore) {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "signups.json"))
	uc := usecase.NewMarkPaidUseCase(store, nil, zap.NewNop())
	uc.Now = func() time.Time { return t0.Add(time.Hour) }
	return handlers.NewPaidHandler(uc), store
}

func TestHandleMarkPaid(t *testing.T) {
	handler, store := newPaidFixture(t)
	ctx := context.Background()
	_, _, err := store.Upsert(ctx, "founder@example.com", "hero-section", t0)
	require.NoError(t, err)
	_, err = store.RecordSent(ctx, "founder@example.com", entity.SequenceWelcome, t0)
	require.NoError(t, err)

	rec := postJSON(t, handler.Handle, "/mark-paid", map[string]string{
		"email": "founder@example.com",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var out usecase.MarkPaidOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "User marked as paid successfully", out.Message)
	assert.Equal(t, entity.StatusPaid, out.Signup.Status)
	require.NotNil(t, out.Signup.PaidAt)
	// Flags reset so the paid welcome is due again.
	assert.False(t, out.Signup.Sequence.WelcomeSent)
}

func TestHandleMarkPaidUnknownUser(t *testing.T) {
	handler, _ := newPaidFixture(t)

	rec := postJSON(t, handler.Handle, "/mark-paid", map[string]string{
		"email": "ghost@example.com",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMarkPaidMissingEmail(t *testing.T) {
	handler, _ := newPaidFixture(t)

	rec := postJSON(t, handler.Handle, "/mark-paid", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
