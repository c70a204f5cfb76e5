package interfaces

import (
	"context"

	"github.com/solveway/eli/pkg/domain/model"
)

// ChatLogRepository persists completed chat turns. Logs are append-only.
type ChatLogRepository interface {
	// Create appends one completed turn, assigning ID and CreatedAt.
	Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error)

	// ListBySession returns all turns of a session ordered by CreatedAt
	// ascending.
	ListBySession(ctx context.Context, sessionID string) ([]*model.ChatLog, error)
}

// LeadRepository persists captured leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) (*model.Lead, error)
}
