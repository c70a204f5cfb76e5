package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model/auth"
)

type tokenStore struct {
	mu     sync.RWMutex
	byID   map[string]*auth.Token
	secret map[string]string // secret -> token ID
}

func newTokenStore() *tokenStore {
	return &tokenStore{
		byID:   make(map[string]*auth.Token),
		secret: make(map[string]string),
	}
}

func (s *tokenStore) Put(ctx context.Context, token *auth.Token) error {
	if token.ID == "" || token.Secret == "" {
		return goerr.New("token ID and secret are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *token
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.byID[cp.ID] = &cp
	s.secret[cp.Secret] = cp.ID
	return nil
}

func (s *tokenStore) Get(ctx context.Context, secret string) (*auth.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.secret[secret]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "unknown token")
	}
	token, ok := s.byID[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "unknown token")
	}

	cp := *token
	return &cp, nil
}

func (s *tokenStore) Delete(ctx context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.byID[tokenID]
	if !ok {
		return goerr.Wrap(ErrNotFound, "unknown token", goerr.V("tokenID", tokenID))
	}
	delete(s.secret, token.Secret)
	delete(s.byID, tokenID)
	return nil
}
