package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lifelessons-backend/internal/clients/redis"
	"github.com/yungbote/lifelessons-backend/internal/platform/firebase"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
	"github.com/yungbote/lifelessons-backend/internal/platform/stripe"
)

type Clients struct {
	Redis    *goredis.Client
	Verifier firebase.TokenVerifier
	Checkout stripe.CheckoutClient
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	rdb, err := redis.NewClient(ctx, log, cfg.Redis())
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}

	// Identity
	var verifier firebase.TokenVerifier
	switch strings.ToLower(strings.TrimSpace(cfg.AuthProvider)) {
	case AuthProviderHMAC:
		v, err := firebase.NewHMACVerifier(cfg.AuthHMACSecret, cfg.AuthHMACIssuer)
		if err != nil {
			closeRedis(rdb)
			return Clients{}, fmt.Errorf("init hmac verifier: %w", err)
		}
		log.Warn("Using HMAC token verifier; do not use in production")
		verifier = v
	default:
		v, err := firebase.NewFirebaseVerifier(ctx, log, cfg.Firebase())
		if err != nil {
			closeRedis(rdb)
			return Clients{}, fmt.Errorf("init firebase verifier: %w", err)
		}
		verifier = v
	}

	// Stripe. Payments answer 500 until a key is configured.
	var checkout stripe.CheckoutClient
	cc, err := stripe.NewCheckoutClient(cfg.StripeKey())
	switch {
	case errors.Is(err, stripe.ErrNotConfigured):
		log.Warn("Stripe secret key not set; payment routes will fail")
	case err != nil:
		closeRedis(rdb)
		return Clients{}, fmt.Errorf("init stripe: %w", err)
	default:
		checkout = cc
	}

	return Clients{Redis: rdb, Verifier: verifier, Checkout: checkout}, nil
}

func closeRedis(rdb *goredis.Client) {
	if rdb != nil {
		_ = rdb.Close()
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	closeRedis(c.Redis)
}
