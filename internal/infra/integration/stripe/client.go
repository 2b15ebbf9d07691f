// Package stripe wraps the official stripe-go SDK for checkout session
// creation and webhook verification. Tests inject a stub of Client.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// CheckoutSession is the subset of a Stripe Checkout Session callers need.
type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a parsed Stripe webhook event. DataRaw carries the raw JSON of
// data.object so handlers unmarshal only what they need.
type Event struct {
	ID      string
	Type    string
	DataRaw json.RawMessage
}

type Client interface {
	// CreateCheckoutSession opens a subscription checkout for the given
	// lead email at the configured price.
	CreateCheckoutSession(ctx context.Context, email string) (CheckoutSession, error)

	// VerifyWebhook validates the Stripe-Signature header and returns the
	// parsed event.
	VerifyWebhook(payload []byte, sigHeader string) (Event, error)
}

type stripeClient struct {
	secretKey     string
	webhookSecret string
	priceID       string
	successURL    string
	cancelURL     string
}

func NewClient(secretKey, webhookSecret, priceID, successURL, cancelURL string) Client {
	return &stripeClient{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		priceID:       priceID,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

func (c *stripeClient) CreateCheckoutSession(ctx context.Context, email string) (CheckoutSession, error) {
	stripego.Key = c.secretKey

	params := &stripego.CheckoutSessionParams{
		Mode: stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Price:    stripego.String(c.priceID),
				Quantity: stripego.Int64(1),
			},
		},
		CustomerEmail: stripego.String(email),
		SuccessURL:    stripego.String(c.successURL),
		CancelURL:     stripego.String(c.cancelURL),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (c *stripeClient) VerifyWebhook(payload []byte, sigHeader string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("stripe: webhook verification failed: %w", err)
	}

	return Event{
		ID:      stripeEvent.ID,
		Type:    string(stripeEvent.Type),
		DataRaw: stripeEvent.Data.Raw,
	}, nil
}

// ExtractCheckoutEmail pulls the payer email from a checkout.session.*
// event. Stripe fills customer_details.email on completed sessions;
// customer_email is only set when the session was created with one.
func ExtractCheckoutEmail(event Event) (string, error) {
	var obj struct {
		CustomerEmail   string `json:"customer_email"`
		CustomerDetails struct {
			Email string `json:"email"`
		} `json:"customer_details"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return "", fmt.Errorf("stripe: unmarshal checkout session: %w", err)
	}

	if obj.CustomerDetails.Email != "" {
		return obj.CustomerDetails.Email, nil
	}
	if obj.CustomerEmail != "" {
		return obj.CustomerEmail, nil
	}
	return "", fmt.Errorf("stripe: no email on checkout session in event %s", event.ID)
}
