package interfaces

import (
	"context"

	"github.com/solveway/eli/pkg/domain/model/auth"
)

// IdentityProvider validates bearer credentials for the internal surface.
type IdentityProvider interface {
	// Validate resolves the presented bearer token to a principal. It
	// returns an error for unknown, malformed or expired tokens; the
	// caller must treat any error as a hard authentication failure.
	Validate(ctx context.Context, bearerToken string) (*auth.Principal, error)
}
