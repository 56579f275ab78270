package firebase

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoEmail      = errors.New("token has no email claim")
)

// Claims is the verified subset of an ID token the API relies on.
type Claims struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"exp"`
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}
