package firebase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type Config struct {
	ProjectID       string
	CredentialsFile string
	// ServiceKeyB64 is a base64-encoded service account JSON.
	ServiceKeyB64 string
}

type firebaseVerifier struct {
	client *auth.Client
	log    *logger.Logger
}

func NewFirebaseVerifier(ctx context.Context, log *logger.Logger, cfg Config) (TokenVerifier, error) {
	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(strings.TrimSpace(cfg.CredentialsFile)))
	case strings.TrimSpace(cfg.ServiceKeyB64) != "":
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.ServiceKeyB64))
		if err != nil {
			return nil, fmt.Errorf("decode FB_SERVICE_KEY: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(raw))
	}

	var appCfg *fb.Config
	if pid := strings.TrimSpace(cfg.ProjectID); pid != "" {
		appCfg = &fb.Config{ProjectID: pid}
	}
	app, err := fb.NewApp(ctx, appCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &firebaseVerifier{client: client, log: log.With("component", "FirebaseVerifier")}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		v.log.Debug("firebase token rejected", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := tok.Claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return nil, ErrNoEmail
	}
	return &Claims{
		UID:       tok.UID,
		Email:     email,
		ExpiresAt: time.Unix(tok.Expires, 0).UTC(),
	}, nil
}
