package auth

import (
	"context"
	"time"
)

// Principal is an authenticated staff member acting on the internal
// surface.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Token is a stored bearer credential. The secret is the value presented
// on the wire; it is never logged.
type Token struct {
	ID        string    `firestore:"ID" json:"id"`
	Secret    string    `firestore:"Secret" json:"secret"`
	Principal Principal `firestore:"Principal" json:"principal"`
	ExpiresAt time.Time `firestore:"ExpiresAt" json:"expires_at"`
	CreatedAt time.Time `firestore:"CreatedAt" json:"created_at"`
}

// Expired reports whether the token has passed its expiry. A zero
// ExpiresAt means the token does not expire.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

type principalKey struct{}

// ContextWithPrincipal attaches the authenticated principal to ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the authenticated principal carried by ctx, or nil
// for anonymous requests.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
