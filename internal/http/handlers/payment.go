package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
	"github.com/yungbote/lifelessons-backend/internal/services"
)

const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	log      *logger.Logger
	payments services.PaymentService
}

func NewPaymentHandler(log *logger.Logger, payments services.PaymentService) *PaymentHandler {
	return &PaymentHandler{log: log.With("handler", "PaymentHandler"), payments: payments}
}

// flexPrice accepts 9.99 or "9.99".
type flexPrice float64

func (p *flexPrice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New("price is not numeric")
		}
		*p = flexPrice(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = flexPrice(f)
	return nil
}

// Payment endpoints answer errors as {"error": ...}.
func (h *PaymentHandler) fail(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status < http.StatusInternalServerError {
		c.JSON(ae.Status, gin.H{"error": ae.Error()})
		return
	}
	h.log.Error("payment request failed", "path", c.FullPath(), "error", err)
	msg := "Something went wrong."
	if ae != nil {
		switch ae.Code {
		case services.CodeCheckoutFailed:
			msg = "Failed to create checkout session"
		case services.CodeConfirmFailed:
			msg = "Failed to retrieve session or update user"
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// POST /create-checkout-session
// body: { "email": "...", "price": 9.99 }
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req struct {
		Email string    `json:"email"`
		Price flexPrice `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	url, err := h.payments.CreateCheckout(c.Request.Context(), req.Email, float64(req.Price))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// POST /payment-success
// body: { "sessionId": "..." }
func (h *PaymentHandler) ConfirmSuccess(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	res, err := h.payments.ConfirmSuccess(c.Request.Context(), req.SessionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /webhook
// Raw body; verified against the Stripe-Signature header when a secret is set.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error: unreadable body"})
		return
	}
	res, err := h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
