package model

import (
	"time"

	"github.com/solveway/eli/pkg/domain/types"
)

// EmbeddingDimension is the expected length of every stored and query
// vector. Vectors of any other length never rank above a well-formed one.
const EmbeddingDimension = 1536

// SourceTypeRoute marks documents describing an apprenticeship route or
// course page. Only these qualify for the recommendation carousel.
const SourceTypeRoute = "route"

// Document is one ingested content source: a site page, route description
// or knowledge article.
type Document struct {
	ID         types.DocumentID
	SourceType string
	SourceSlug string
	Title      string
	URL        string
	CreatedAt  time.Time
}

// Chunk is one embeddable slice of a document.
type Chunk struct {
	ID         types.ChunkID
	DocumentID types.DocumentID
	Content    string
	ChunkIndex int
}

// Embedding pairs a chunk with its vector representation.
type Embedding struct {
	ChunkID types.ChunkID
	Vector  []float32
}

// RetrievalResult is one ranked hit joined with its parent document
// metadata, ready for prompt assembly.
type RetrievalResult struct {
	Content    string
	Similarity float64
	Title      string
	URL        string
	SourceType string
}
