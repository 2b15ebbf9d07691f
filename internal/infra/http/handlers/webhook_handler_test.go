package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/handlers"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/integration/stripe"
	"github.com/dealcrafter/dealcrafter-backend/internal/infra/storage"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

type stubStripeClient struct {
	event     stripe.Event
	verifyErr error
}

func (s *stubStripeClient) CreateCheckoutSession(ctx context.Context, email string) (stripe.CheckoutSession, error) {
	return stripe.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/pay/cs_test_123"}, nil
}

func (s *stubStripeClient) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	if s.verifyErr != nil {
		return stripe.Event{}, s.verifyErr
	}
	return s.event, nil
}

func checkoutCompletedEvent(t *testing.T, email string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"customer_details": map[string]string{"email": email},
	})
	require.NoError(t, err)
	return stripe.Event{ID: "evt_123", Type: "checkout.session.completed", DataRaw: raw}
}

func newWebhookFixture(t *testing.T, client stripe.Client) (*handlers.WebhookHandler, *storage.FileStore) {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "signups.json"))
	uc := usecase.NewMarkPaidUseCase(store, nil, zap.NewNop())
	uc.Now = func() time.Time { return t0.Add(time.Hour) }
	return handlers.NewWebhookHandler(client, uc, zap.NewNop()), store
}

func TestWebhookPromotesLeadOnCheckoutCompleted(t *testing.T) {
	client := &stubStripeClient{event: checkoutCompletedEvent(t, "founder@example.com")}
	handler, store := newWebhookFixture(t, client)
	_, _, err := store.Upsert(context.Background(), "founder@example.com", "hero-section", t0)
	require.NoError(t, err)

	rec := postJSON(t, handler.Handle, "/webhook", map[string]string{"ignored": "body"})

	require.Equal(t, http.StatusOK, rec.Code)
	lead, err := store.Get(context.Background(), "founder@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, lead.Status)
	require.NotNil(t, lead.PaidAt)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	client := &stubStripeClient{verifyErr: errors.New("signature mismatch")}
	handler, _ := newWebhookFixture(t, client)

	rec := postJSON(t, handler.Handle, "/webhook", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	client := &stubStripeClient{event: stripe.Event{
		ID:      "evt_456",
		Type:    "invoice.paid",
		DataRaw: json.RawMessage(`{}`),
	}}
	handler, store := newWebhookFixture(t, client)
	_, _, err := store.Upsert(context.Background(), "founder@example.com", "hero-section", t0)
	require.NoError(t, err)

	rec := postJSON(t, handler.Handle, "/webhook", map[string]string{})

	require.Equal(t, http.StatusOK, rec.Code)
	lead, err := store.Get(context.Background(), "founder@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusEarlyAccess, lead.Status)
}

// Someone paid through Stripe without ever signing up. Stripe must not
// retry forever, so the event is acknowledged and only logged.
func TestWebhookAcknowledgesUnknownPayer(t *testing.T) {
	client := &stubStripeClient{event: checkoutCompletedEvent(t, "stranger@example.com")}
	handler, _ := newWebhookFixture(t, client)

	rec := postJSON(t, handler.Handle, "/webhook", map[string]string{})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractCheckoutEmailPrefersCustomerDetails(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		"customer_email":   "fallback@example.com",
		"customer_details": map[string]string{"email": "primary@example.com"},
	})
	require.NoError(t, err)

	email, err := stripe.ExtractCheckoutEmail(stripe.Event{ID: "evt_789", DataRaw: raw})

	require.NoError(t, err)
	assert.Equal(t, "primary@example.com", email)
}

func TestExtractCheckoutEmailMissing(t *testing.T) {
	_, err := stripe.ExtractCheckoutEmail(stripe.Event{ID: "evt_000", DataRaw: json.RawMessage(`{}`)})

	assert.Error(t, err)
}
