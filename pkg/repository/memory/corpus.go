package memory

import (
	"context"
	"sync"

	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
)

type corpusRepository struct {
	mu         sync.RWMutex
	documents  map[types.DocumentID]*model.Document
	chunks     map[types.ChunkID]*model.Chunk
	embeddings map[types.ChunkID]*model.Embedding
	// order preserves insertion order so the similarity scan is stable
	order []types.ChunkID
}

func newCorpusRepository() *corpusRepository {
	return &corpusRepository{
		documents:  make(map[types.DocumentID]*model.Document),
		chunks:     make(map[types.ChunkID]*model.Chunk),
		embeddings: make(map[types.ChunkID]*model.Embedding),
	}
}

func (r *corpusRepository) ListEmbeddings(ctx context.Context) ([]*model.Embedding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Embedding, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.embeddings[id]; ok {
			result = append(result, copyEmbedding(e))
		}
	}
	return result, nil
}

func (r *corpusRepository) GetChunks(ctx context.Context, ids []types.ChunkID) ([]*model.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Chunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.chunks[id]; ok {
			cp := *c
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *corpusRepository) GetDocuments(ctx context.Context, ids []types.DocumentID) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := r.documents[id]; ok {
			cp := *d
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *corpusRepository) PutDocument(ctx context.Context, doc *model.Document, chunks []*model.Chunk, embeddings []*model.Embedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *doc
	r.documents[doc.ID] = &cp

	for _, c := range chunks {
		ccp := *c
		r.chunks[c.ID] = &ccp
	}
	for _, e := range embeddings {
		if _, exists := r.embeddings[e.ChunkID]; !exists {
			r.order = append(r.order, e.ChunkID)
		}
		r.embeddings[e.ChunkID] = copyEmbedding(e)
	}
	return nil
}

func copyEmbedding(e *model.Embedding) *model.Embedding {
	cp := &model.Embedding{ChunkID: e.ChunkID}
	if e.Vector != nil {
		cp.Vector = make([]float32, len(e.Vector))
		copy(cp.Vector, e.Vector)
	}
	return cp
}
