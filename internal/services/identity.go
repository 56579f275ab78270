package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	"github.com/yungbote/lifelessons-backend/internal/observability"
	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/ctxutil"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/firebase"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

// TokenCache stores verified claims keyed by token digest.
type TokenCache interface {
	Get(ctx context.Context, digest string) (string, bool, error)
	Set(ctx context.Context, digest string, value string, ttl time.Duration) error
}

type IdentityService interface {
	Resolve(ctx context.Context, token string) (*ctxutil.Identity, error)
	Role(ctx context.Context, email string) (string, error)
}

type identityService struct {
	log      *logger.Logger
	verifier firebase.TokenVerifier
	cache    TokenCache
	users    repos.UserRepo
	cacheTTL time.Duration
	now      func() time.Time
}

// NewIdentityService accepts a nil cache; every token is then verified.
func NewIdentityService(log *logger.Logger, verifier firebase.TokenVerifier, cache TokenCache, users repos.UserRepo, cacheTTL time.Duration) IdentityService {
	serviceLog := log.With("service", "IdentityService")
	return &identityService{
		log:      serviceLog,
		verifier: verifier,
		cache:    cache,
		users:    users,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *identityService) Resolve(ctx context.Context, token string) (*ctxutil.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierr.Unauthorized("Unauthorized Access!")
	}
	digest := tokenDigest(token)

	if claims := s.cached(ctx, digest); claims != nil {
		return &ctxutil.Identity{Email: claims.Email, UID: claims.UID}, nil
	}

	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		s.log.Debug("token rejected", "error", err)
		return nil, apierr.Unauthorized("Unauthorized Access!")
	}
	if claims == nil || claims.Email == "" {
		return nil, apierr.Unauthorized("Unauthorized Access!")
	}
	s.store(ctx, digest, claims)
	return &ctxutil.Identity{Email: claims.Email, UID: claims.UID}, nil
}

func (s *identityService) cached(ctx context.Context, digest string) *firebase.Claims {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, digest)
	if err != nil {
		s.log.Warn("token cache read failed", "error", err)
		ok = false
	}
	if !ok {
		observability.Current().IncTokenCache("miss")
		return nil
	}
	var claims firebase.Claims
	if err := json.Unmarshal([]byte(raw), &claims); err != nil || claims.Email == "" {
		observability.Current().IncTokenCache("miss")
		return nil
	}
	if !claims.ExpiresAt.IsZero() && !claims.ExpiresAt.After(s.now()) {
		observability.Current().IncTokenCache("miss")
		return nil
	}
	observability.Current().IncTokenCache("hit")
	return &claims
}

func (s *identityService) store(ctx context.Context, digest string, claims *firebase.Claims) {
	if s.cache == nil {
		return
	}
	ttl := s.cacheTTL
	if !claims.ExpiresAt.IsZero() {
		if left := claims.ExpiresAt.Sub(s.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(claims)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, digest, string(raw), ttl); err != nil {
		s.log.Warn("token cache write failed", "error", err)
	}
}

func (s *identityService) Role(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return "", wrapStoreErr("identity role", err)
	}
	if user == nil {
		return "", nil
	}
	return user.Role, nil
}
