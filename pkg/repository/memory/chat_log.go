package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
)

type chatLogRepository struct {
	mu   sync.RWMutex
	logs []*model.ChatLog
}

func newChatLogRepository() *chatLogRepository {
	return &chatLogRepository{}
}

func (r *chatLogRepository) Create(ctx context.Context, log *model.ChatLog) (*model.ChatLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *log
	if cp.ID == "" {
		cp.ID = types.NewChatLogID()
	}
	cp.CreatedAt = time.Now().UTC()

	r.logs = append(r.logs, &cp)

	result := cp
	return &result, nil
}

func (r *chatLogRepository) ListBySession(ctx context.Context, sessionID string) ([]*model.ChatLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.ChatLog, 0)
	for _, l := range r.logs {
		if l.SessionID == sessionID {
			cp := *l
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
