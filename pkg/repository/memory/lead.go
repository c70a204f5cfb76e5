package memory

import (
	"context"
	"sync"
	"time"

	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
)

type leadRepository struct {
	mu    sync.RWMutex
	leads []*model.Lead
}

func newLeadRepository() *leadRepository {
	return &leadRepository{}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *lead
	if cp.ID == "" {
		cp.ID = types.NewLeadID()
	}
	cp.CreatedAt = time.Now().UTC()

	r.leads = append(r.leads, &cp)

	result := cp
	return &result, nil
}
