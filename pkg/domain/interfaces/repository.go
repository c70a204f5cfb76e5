package interfaces

import (
	"context"

	"github.com/solveway/eli/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Corpus() CorpusRepository
	ChatLog() ChatLogRepository
	Lead() LeadRepository
	Learner() LearnerRepository

	// Auth token methods, used by the bearer identity provider
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, secret string) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID string) error

	Close() error
}
