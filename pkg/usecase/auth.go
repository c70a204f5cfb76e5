package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/interfaces"
	"github.com/solveway/eli/pkg/domain/model/auth"
)

// TokenIdentityProvider validates bearer credentials against the
// repository token store.
type TokenIdentityProvider struct {
	repo interfaces.Repository
	now  func() time.Time
}

var _ interfaces.IdentityProvider = &TokenIdentityProvider{}

func NewTokenIdentityProvider(repo interfaces.Repository) *TokenIdentityProvider {
	return &TokenIdentityProvider{
		repo: repo,
		now:  time.Now,
	}
}

// Validate resolves the presented bearer token to its principal. Any
// failure is a hard authentication failure for the caller; the reason is
// carried for the operator log only, never for the client.
func (p *TokenIdentityProvider) Validate(ctx context.Context, bearerToken string) (*auth.Principal, error) {
	secret := strings.TrimSpace(bearerToken)
	if secret == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "empty bearer token")
	}

	token, err := p.repo.GetToken(ctx, secret)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "token lookup failed")
	}
	if token.Expired(p.now()) {
		return nil, goerr.Wrap(ErrUnauthorized, "token expired",
			goerr.V("tokenID", token.ID),
		)
	}

	principal := token.Principal
	return &principal, nil
}
