package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	stripego "github.com/stripe/stripe-go/v76"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainPayment "github.com/yungbote/lifelessons-backend/internal/domain/payment"
	"github.com/yungbote/lifelessons-backend/internal/observability"
	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
	"github.com/yungbote/lifelessons-backend/internal/platform/stripe"
)

const (
	premiumProductName = "Premium Plan ⭐"
	checkoutCurrency   = "usd"

	eventCheckoutCompleted = "checkout.session.completed"

	// Codes for provider failures; handlers map them to their public message.
	CodeCheckoutFailed = "checkout_failed"
	CodeConfirmFailed  = "confirm_failed"
)

type PaymentConfig struct {
	ClientDomain  string
	WebhookSecret string
}

type SessionView struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	CustomerEmail string `json:"customerEmail"`
}

type UpgradeCounts struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type ConfirmResult struct {
	Message     string        `json:"message"`
	Session     SessionView   `json:"session"`
	UpdatedUser UpgradeCounts `json:"updatedUser"`
}

type WebhookResult struct {
	Received  bool   `json:"received"`
	EventType string `json:"-"`
	Duplicate bool   `json:"-"`
}

type PaymentService interface {
	CreateCheckout(ctx context.Context, email string, price float64) (string, error)
	ConfirmSuccess(ctx context.Context, sessionID string) (*ConfirmResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error)
}

type paymentService struct {
	db       *gorm.DB
	log      *logger.Logger
	checkout stripe.CheckoutClient
	payments repos.PaymentRepo
	users    repos.UserRepo
	cfg      PaymentConfig
}

// NewPaymentService accepts a nil checkout client; checkout and confirm then
// fail with 500 while webhooks keep working.
func NewPaymentService(db *gorm.DB, log *logger.Logger, checkout stripe.CheckoutClient, payments repos.PaymentRepo, users repos.UserRepo, cfg PaymentConfig) PaymentService {
	serviceLog := log.With("service", "PaymentService")
	cfg.ClientDomain = strings.TrimRight(cfg.ClientDomain, "/")
	return &paymentService{db: db, log: serviceLog, checkout: checkout, payments: payments, users: users, cfg: cfg}
}

func priceToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func rawJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func (s *paymentService) CreateCheckout(ctx context.Context, email string, price float64) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apierr.BadRequest("Customer email is required")
	}
	cents := priceToCents(price)
	if cents <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return "", apierr.BadRequest("Invalid price")
	}
	if s.checkout == nil {
		observability.Current().IncPayment("checkout", "error")
		return "", apierr.New(http.StatusInternalServerError, CodeCheckoutFailed, stripe.ErrNotConfigured)
	}

	params := &stripego.CheckoutSessionParams{
		CustomerEmail:      stripego.String(email),
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency: stripego.String(checkoutCurrency),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String(premiumProductName),
				},
				UnitAmount: stripego.Int64(cents),
			},
			Quantity: stripego.Int64(1),
		}},
		SuccessURL: stripego.String(s.cfg.ClientDomain + "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripego.String(s.cfg.ClientDomain + "/dashboard/payment-cancelled"),
	}
	sess, err := s.checkout.NewSession(ctx, params)
	if err != nil {
		observability.Current().IncPayment("checkout", "error")
		return "", apierr.New(http.StatusInternalServerError, CodeCheckoutFailed, fmt.Errorf("create checkout session: %w", err))
	}

	if err := s.payments.Create(dbctx.Context{Ctx: ctx}, &types.Payment{
		SessionID:   sess.ID,
		Email:       email,
		AmountCents: cents,
		Currency:    checkoutCurrency,
		Status:      domainPayment.StatusPending,
		Raw:         rawJSON(sess),
	}); err != nil {
		// The session exists upstream; confirm and webhook upsert the row later.
		s.log.Warn("record pending payment failed", "session_id", sess.ID, "error", err)
	}
	observability.Current().IncPayment("checkout", "ok")
	s.log.Info("checkout session created", "session_id", sess.ID, "email", email, "amount_cents", cents)
	return sess.URL, nil
}

// upgrade marks the customer premium and records the session in one
// transaction.
func (s *paymentService) upgrade(ctx context.Context, sess *stripego.CheckoutSession, email string, eventID string) (matched, modified int64, err error) {
	status := string(sess.PaymentStatus)
	if status == "" {
		status = domainPayment.StatusCompleted
	}
	row := &types.Payment{
		SessionID:   sess.ID,
		Email:       email,
		AmountCents: sess.AmountTotal,
		Currency:    string(sess.Currency),
		Status:      status,
		Raw:         rawJSON(sess),
	}
	if row.Currency == "" {
		row.Currency = checkoutCurrency
	}
	if eventID != "" {
		row.EventID = &eventID
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		var err error
		if matched, modified, err = s.users.SetPremium(inner, email, true); err != nil {
			return err
		}
		return s.payments.Upsert(inner, row)
	})
	return matched, modified, err
}

func (s *paymentService) ConfirmSuccess(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apierr.BadRequest("Session ID is required")
	}
	if s.checkout == nil {
		return nil, apierr.New(http.StatusInternalServerError, CodeConfirmFailed, stripe.ErrNotConfigured)
	}
	sess, err := s.checkout.GetSession(ctx, sessionID)
	if err != nil {
		observability.Current().IncPayment("confirm", "error")
		return nil, apierr.New(http.StatusInternalServerError, CodeConfirmFailed, fmt.Errorf("retrieve session: %w", err))
	}
	email := stripe.CustomerEmail(sess)
	if email == "" {
		return nil, apierr.BadRequest("Customer email not found in session")
	}
	matched, modified, err := s.upgrade(ctx, sess, email, "")
	if err != nil {
		observability.Current().IncPayment("confirm", "error")
		return nil, apierr.New(http.StatusInternalServerError, CodeConfirmFailed, fmt.Errorf("upgrade user: %w", err))
	}
	observability.Current().IncPayment("confirm", "ok")
	s.log.Info("premium upgrade confirmed", "session_id", sess.ID, "email", email, "modified", modified)
	return &ConfirmResult{
		Message: "Payment successful and user upgraded to Premium",
		Session: SessionView{
			ID:            sess.ID,
			Status:        string(sess.Status),
			PaymentStatus: string(sess.PaymentStatus),
			CustomerEmail: email,
		},
		UpdatedUser: UpgradeCounts{MatchedCount: matched, ModifiedCount: modified},
	}, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	ev, err := stripe.ParseEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		observability.Current().IncPayment("webhook", "rejected")
		return nil, apierr.BadRequest("Webhook Error: " + err.Error())
	}
	res := &WebhookResult{Received: true, EventType: string(ev.Type)}
	if string(ev.Type) != eventCheckoutCompleted {
		observability.Current().IncPayment("webhook", "ignored")
		return res, nil
	}

	dbc := dbctx.Context{Ctx: ctx}
	seen, err := s.payments.EventSeen(dbc, ev.ID)
	if err != nil {
		return nil, wrapStoreErr("webhook dedup", err)
	}
	if seen {
		res.Duplicate = true
		observability.Current().IncPayment("webhook", "duplicate")
		return res, nil
	}

	sess, err := stripe.SessionFromEvent(ev)
	if err != nil {
		return nil, apierr.BadRequest("Webhook Error: " + err.Error())
	}
	email := stripe.CustomerEmail(sess)
	if email == "" {
		s.log.Warn("checkout completed without customer email", "session_id", sess.ID, "event_id", ev.ID)
		observability.Current().IncPayment("webhook", "ignored")
		return res, nil
	}
	if _, _, err := s.upgrade(ctx, sess, email, ev.ID); err != nil {
		observability.Current().IncPayment("webhook", "error")
		return nil, wrapStoreErr("webhook upgrade", err)
	}
	observability.Current().IncPayment("webhook", "ok")
	s.log.Info("premium upgrade via webhook", "session_id", sess.ID, "event_id", ev.ID, "email", email)
	return res, nil
}
