package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/lifelessons-backend/internal/data/repos/testutil"
	"github.com/yungbote/lifelessons-backend/internal/platform/firebase"
)

type memTokenCache struct {
	mu   sync.Mutex
	vals map[string]string
	ttls map[string]time.Duration
}

func newMemTokenCache() *memTokenCache {
	return &memTokenCache{vals: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memTokenCache) Get(_ context.Context, digest string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vals[digest]
	return v, ok, nil
}

func (c *memTokenCache) Set(_ context.Context, digest, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals[digest] = value
	c.ttls[digest] = ttl
	return nil
}

type countingVerifier struct {
	inner firebase.TokenVerifier
	calls int
}

func (v *countingVerifier) Verify(ctx context.Context, token string) (*firebase.Claims, error) {
	v.calls++
	return v.inner.Verify(ctx, token)
}

func TestIdentityResolveUsesCache(t *testing.T) {
	r := newTestRepos(t)
	hmac, err := firebase.NewHMACVerifier("test-secret", "")
	require.NoError(t, err)
	verifier := &countingVerifier{inner: hmac}
	cache := newMemTokenCache()
	svc := NewIdentityService(r.log, verifier, cache, r.users, time.Hour)

	token, err := hmac.Sign("uid-1", "a@example.com", 10*time.Minute)
	require.NoError(t, err)

	id, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", id.Email)
	require.Equal(t, "uid-1", id.UID)

	id, err = svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", id.Email)
	require.Equal(t, 1, verifier.calls, "second resolve is served from cache")

	ttl := cache.ttls[tokenDigest(token)]
	require.LessOrEqual(t, ttl, 10*time.Minute, "ttl is capped by token expiry")
	require.Greater(t, ttl, time.Duration(0))
}

func TestIdentityResolveRejects(t *testing.T) {
	r := newTestRepos(t)
	hmac, err := firebase.NewHMACVerifier("test-secret", "")
	require.NoError(t, err)
	svc := NewIdentityService(r.log, hmac, nil, r.users, time.Hour)

	_, err = svc.Resolve(context.Background(), "")
	wantStatus(t, err, http.StatusUnauthorized)

	_, err = svc.Resolve(context.Background(), "not-a-jwt")
	wantStatus(t, err, http.StatusUnauthorized)

	noEmail, err := hmac.Sign("uid", "", time.Minute)
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), noEmail)
	wantStatus(t, err, http.StatusUnauthorized)

	other, err := firebase.NewHMACVerifier("other-secret", "")
	require.NoError(t, err)
	forged, err := other.Sign("uid", "a@example.com", time.Minute)
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), forged)
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestIdentityRole(t *testing.T) {
	r := newTestRepos(t)
	svc := NewIdentityService(r.log, nil, nil, r.users, time.Hour)
	testutil.SeedAdmin(t, r.db, "admin@example.com")

	role, err := svc.Role(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, "admin", role)

	role, err = svc.Role(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	require.Empty(t, role)
}
