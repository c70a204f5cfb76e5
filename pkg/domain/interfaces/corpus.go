package interfaces

import (
	"context"

	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
)

// CorpusRepository gives read access to the ingested document corpus and
// write access for the ingestion collaborator.
type CorpusRepository interface {
	// ListEmbeddings returns every stored embedding (chunk ID + vector).
	// The similarity scan loads the whole set; for a corpus of a few
	// thousand chunks this is a deliberate simplicity trade-off.
	ListEmbeddings(ctx context.Context) ([]*model.Embedding, error)

	// GetChunks retrieves the chunks with the given IDs. Unknown IDs are
	// skipped, not an error.
	GetChunks(ctx context.Context, ids []types.ChunkID) ([]*model.Chunk, error)

	// GetDocuments retrieves the documents with the given IDs. Unknown IDs
	// are skipped, not an error.
	GetDocuments(ctx context.Context, ids []types.DocumentID) ([]*model.Document, error)

	// PutDocument upserts a document with its chunks and embeddings.
	PutDocument(ctx context.Context, doc *model.Document, chunks []*model.Chunk, embeddings []*model.Embedding) error
}
