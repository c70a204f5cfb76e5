package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model"
)

// HistoryMessage is one reconstructed conversation entry as served to
// clients restoring a session.
type HistoryMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// History rebuilds the ordered user/assistant message pairs of a session
// from its logged turns. Each turn yields up to two messages sharing the
// turn's timestamp.
func (uc *UseCases) History(ctx context.Context, sessionID string) ([]HistoryMessage, error) {
	if sessionID == "" {
		return nil, goerr.Wrap(ErrBadRequest, "sessionId is required")
	}

	logs, err := uc.repo.ChatLog().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list chat logs",
			goerr.V("sessionID", sessionID),
		)
	}

	messages := make([]HistoryMessage, 0, len(logs)*2)
	for _, log := range logs {
		if log.UserMessage != "" {
			messages = append(messages, HistoryMessage{
				ID:        string(log.ID) + "-user",
				Role:      model.RoleUser,
				Content:   log.UserMessage,
				CreatedAt: log.CreatedAt,
			})
		}
		if log.AssistantResponse != "" {
			messages = append(messages, HistoryMessage{
				ID:        string(log.ID) + "-assistant",
				Role:      model.RoleAssistant,
				Content:   log.AssistantResponse,
				CreatedAt: log.CreatedAt,
			})
		}
	}

	return messages, nil
}
