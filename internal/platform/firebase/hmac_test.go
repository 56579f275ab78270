package firebase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHMACVerifier(t *testing.T) {
	ctx := context.Background()
	v, err := NewHMACVerifier("top-secret", "lifelessons-test")
	if err != nil {
		t.Fatalf("NewHMACVerifier: %v", err)
	}

	tok, err := v.Sign("uid-1", "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := v.Verify(ctx, tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Email != "a@example.com" || claims.UID != "uid-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt.Before(time.Now()) {
		t.Fatalf("expected future expiry, got %v", claims.ExpiresAt)
	}

	expired, _ := v.Sign("uid-1", "a@example.com", -time.Minute)
	if _, err := v.Verify(ctx, expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: expected ErrInvalidToken, got %v", err)
	}

	other, _ := NewHMACVerifier("another-secret", "lifelessons-test")
	forged, _ := other.Sign("uid-1", "a@example.com", time.Hour)
	if _, err := v.Verify(ctx, forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: expected ErrInvalidToken, got %v", err)
	}

	wrongIssuer, _ := NewHMACVerifier("top-secret", "someone-else")
	foreign, _ := wrongIssuer.Sign("uid-1", "a@example.com", time.Hour)
	if _, err := v.Verify(ctx, foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer: expected ErrInvalidToken, got %v", err)
	}

	noEmail, _ := v.Sign("uid-1", "", time.Hour)
	if _, err := v.Verify(ctx, noEmail); !errors.Is(err, ErrNoEmail) {
		t.Fatalf("no email: expected ErrNoEmail, got %v", err)
	}

	if _, err := v.Verify(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("empty: expected ErrMissingToken, got %v", err)
	}
	if _, err := v.Verify(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: expected ErrInvalidToken, got %v", err)
	}
}

func TestNewHMACVerifierRequiresSecret(t *testing.T) {
	if _, err := NewHMACVerifier("  ", ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
