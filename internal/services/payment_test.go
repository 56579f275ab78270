package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/yungbote/lifelessons-backend/internal/data/repos/testutil"
	domainPayment "github.com/yungbote/lifelessons-backend/internal/domain/payment"
	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
)

type fakeCheckout struct {
	lastParams *stripego.CheckoutSessionParams
	sessions   map[string]*stripego.CheckoutSession
	newErr     error
}

func (f *fakeCheckout) NewSession(_ context.Context, params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.lastParams = params
	return &stripego.CheckoutSession{ID: "cs_new", URL: "https://checkout.example/cs_new"}, nil
}

func (f *fakeCheckout) GetSession(_ context.Context, id string) (*stripego.CheckoutSession, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("no such session")
	}
	return sess, nil
}

const webhookSecret = "whsec_test"

const completedEventJSON = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "api_version": "2020-08-27",
  "data": {"object": {"id": "cs_hook", "object": "checkout.session", "customer_email": "buyer@example.com", "payment_status": "paid", "amount_total": 999, "currency": "usd"}}
}`

func (r *testRepos) paymentService(checkout *fakeCheckout) PaymentService {
	return NewPaymentService(r.db, r.log, checkout, r.payments, r.users, PaymentConfig{
		ClientDomain:  "https://app.example/",
		WebhookSecret: webhookSecret,
	})
}

func TestPaymentCreateCheckout(t *testing.T) {
	r := newTestRepos(t)
	fake := &fakeCheckout{}
	svc := r.paymentService(fake)
	ctx := context.Background()

	url, err := svc.CreateCheckout(ctx, "buyer@example.com", 9.99)
	require.NoError(t, err)
	require.Equal(t, "https://checkout.example/cs_new", url)

	p := fake.lastParams
	require.Equal(t, "buyer@example.com", *p.CustomerEmail)
	require.Equal(t, "payment", *p.Mode)
	require.Equal(t, int64(999), *p.LineItems[0].PriceData.UnitAmount)
	require.Equal(t, "usd", *p.LineItems[0].PriceData.Currency)
	require.Equal(t, "Premium Plan ⭐", *p.LineItems[0].PriceData.ProductData.Name)
	require.Equal(t, "https://app.example/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}", *p.SuccessURL)
	require.Equal(t, "https://app.example/dashboard/payment-cancelled", *p.CancelURL)

	row, err := r.payments.GetBySessionID(dbctx.Context{Ctx: ctx}, "cs_new")
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, domainPayment.StatusPending, row.Status)
	require.EqualValues(t, 999, row.AmountCents)

	_, err = svc.CreateCheckout(ctx, "buyer@example.com", 0)
	wantStatus(t, err, http.StatusBadRequest)
	_, err = svc.CreateCheckout(ctx, "", 5)
	wantStatus(t, err, http.StatusBadRequest)

	fake.newErr = errors.New("stripe down")
	_, err = svc.CreateCheckout(ctx, "buyer@example.com", 5)
	wantStatus(t, err, http.StatusInternalServerError)
	var ae *apierr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, CodeCheckoutFailed, ae.Code)
}

func TestPaymentConfirmSuccess(t *testing.T) {
	r := newTestRepos(t)
	fake := &fakeCheckout{sessions: map[string]*stripego.CheckoutSession{
		"cs_paid": {
			ID:            "cs_paid",
			Status:        stripego.CheckoutSessionStatusComplete,
			PaymentStatus: stripego.CheckoutSessionPaymentStatusPaid,
			CustomerEmail: "buyer@example.com",
			AmountTotal:   1500,
			Currency:      stripego.CurrencyUSD,
		},
		"cs_anon": {ID: "cs_anon"},
	}}
	svc := r.paymentService(fake)
	ctx := context.Background()
	testutil.SeedUser(t, r.db, "buyer@example.com")

	res, err := svc.ConfirmSuccess(ctx, "cs_paid")
	require.NoError(t, err)
	require.Equal(t, "Payment successful and user upgraded to Premium", res.Message)
	require.Equal(t, "paid", res.Session.PaymentStatus)
	require.EqualValues(t, 1, res.UpdatedUser.MatchedCount)
	require.EqualValues(t, 1, res.UpdatedUser.ModifiedCount)
	require.True(t, testutil.ReloadUser(t, r.db, "buyer@example.com").IsPremium)

	row, err := r.payments.GetBySessionID(dbctx.Context{Ctx: ctx}, "cs_paid")
	require.NoError(t, err)
	require.Equal(t, "paid", row.Status)

	res, err = svc.ConfirmSuccess(ctx, "cs_paid")
	require.NoError(t, err)
	require.EqualValues(t, 0, res.UpdatedUser.ModifiedCount, "already premium")

	_, err = svc.ConfirmSuccess(ctx, "cs_anon")
	wantStatus(t, err, http.StatusBadRequest)

	_, err = svc.ConfirmSuccess(ctx, "cs_missing")
	wantStatus(t, err, http.StatusInternalServerError)
}

func signedEvent(t *testing.T, payload string) *webhook.SignedPayload {
	t.Helper()
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})
}

func TestPaymentWebhookDedup(t *testing.T) {
	r := newTestRepos(t)
	svc := r.paymentService(&fakeCheckout{})
	ctx := context.Background()
	testutil.SeedUser(t, r.db, "buyer@example.com")

	signed := signedEvent(t, completedEventJSON)
	res, err := svc.HandleWebhook(ctx, signed.Payload, signed.Header)
	require.NoError(t, err)
	require.True(t, res.Received)
	require.False(t, res.Duplicate)
	require.True(t, testutil.ReloadUser(t, r.db, "buyer@example.com").IsPremium)

	seen, err := r.payments.EventSeen(dbctx.Context{Ctx: ctx}, "evt_1")
	require.NoError(t, err)
	require.True(t, seen)

	res, err = svc.HandleWebhook(ctx, signed.Payload, signed.Header)
	require.NoError(t, err)
	require.True(t, res.Duplicate)
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	r := newTestRepos(t)
	svc := r.paymentService(&fakeCheckout{})

	_, err := svc.HandleWebhook(context.Background(), []byte(completedEventJSON), "t=1,v1=deadbeef")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestPaymentWebhookIgnoresOtherEvents(t *testing.T) {
	r := newTestRepos(t)
	svc := r.paymentService(&fakeCheckout{})

	signed := signedEvent(t, `{"id":"evt_2","object":"event","type":"invoice.paid","api_version":"2020-08-27","data":{"object":{}}}`)
	res, err := svc.HandleWebhook(context.Background(), signed.Payload, signed.Header)
	require.NoError(t, err)
	require.True(t, res.Received)
	require.Equal(t, "invoice.paid", res.EventType)
}
