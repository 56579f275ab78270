package ctxutil

import "context"

type identityKey struct{}

// Identity is the verified caller attached by the auth middleware.
type Identity struct {
	Email string
	UID   string
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if id, ok := val.(*Identity); ok {
		return id
	}
	return nil
}

// Email returns the verified caller email, or "" for anonymous requests.
func Email(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.Email
	}
	return ""
}
