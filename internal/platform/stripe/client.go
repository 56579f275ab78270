package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

var ErrNotConfigured = errors.New("stripe secret key not configured")

// CheckoutClient is the subset of the Stripe API used for premium upgrades.
type CheckoutClient interface {
	NewSession(ctx context.Context, params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
	GetSession(ctx context.Context, id string) (*stripego.CheckoutSession, error)
}

type checkoutClient struct {
	api *client.API
}

func NewCheckoutClient(secretKey string) (CheckoutClient, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	return &checkoutClient{api: client.New(secretKey, nil)}, nil
}

func (c *checkoutClient) NewSession(ctx context.Context, params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
	if params == nil {
		return nil, errors.New("nil checkout params")
	}
	params.Context = ctx
	return c.api.CheckoutSessions.New(params)
}

func (c *checkoutClient) GetSession(ctx context.Context, id string) (*stripego.CheckoutSession, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx
	return c.api.CheckoutSessions.Get(id, params)
}

// ParseEvent verifies the Stripe-Signature header when secret is set.
// Without a secret the payload is decoded unverified.
func ParseEvent(payload []byte, sigHeader, secret string) (stripego.Event, error) {
	if strings.TrimSpace(secret) != "" {
		ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			return stripego.Event{}, fmt.Errorf("verify webhook: %w", err)
		}
		return ev, nil
	}
	var ev stripego.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return stripego.Event{}, fmt.Errorf("decode webhook: %w", err)
	}
	return ev, nil
}

// SessionFromEvent decodes the checkout session carried by a
// checkout.session.* event.
func SessionFromEvent(ev stripego.Event) (*stripego.CheckoutSession, error) {
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return nil, errors.New("event has no data object")
	}
	var sess stripego.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	return &sess, nil
}

// CustomerEmail prefers customer_email and falls back to customer_details.
func CustomerEmail(sess *stripego.CheckoutSession) string {
	if sess == nil {
		return ""
	}
	if e := strings.TrimSpace(sess.CustomerEmail); e != "" {
		return e
	}
	if sess.CustomerDetails != nil {
		return strings.TrimSpace(sess.CustomerDetails.Email)
	}
	return ""
}
