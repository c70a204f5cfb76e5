package search_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
	"github.com/solveway/eli/pkg/repository/memory"
	"github.com/solveway/eli/pkg/service/search"
)

// unitVector returns a vector of the given dimension with 1.0 at pos.
func unitVector(dim, pos int) []float32 {
	v := make([]float32, dim)
	v[pos] = 1
	return v
}

func seedCorpus(t *testing.T, repo *memory.Memory, docID string, sourceType string, title string, vectors [][]float32) {
	t.Helper()
	ctx := context.Background()

	doc := &model.Document{
		ID:         types.DocumentID(docID),
		SourceType: sourceType,
		Title:      title,
		URL:        "https://example.com/" + docID,
	}
	chunks := make([]*model.Chunk, len(vectors))
	embeddings := make([]*model.Embedding, len(vectors))
	for i, vec := range vectors {
		chunkID := types.ChunkID(fmt.Sprintf("%s#%d", docID, i))
		chunks[i] = &model.Chunk{
			ID:         chunkID,
			DocumentID: doc.ID,
			Content:    fmt.Sprintf("content of %s chunk %d", docID, i),
			ChunkIndex: i,
		}
		embeddings[i] = &model.Embedding{ChunkID: chunkID, Vector: vec}
	}
	gt.NoError(t, repo.Corpus().PutDocument(ctx, doc, chunks, embeddings)).Required()
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	const dim = 8

	t.Run("results sorted by descending similarity", func(t *testing.T) {
		repo := memory.New()
		query := unitVector(dim, 0)

		// Similarities against query: 0.2, 0.9, 0.5
		seedCorpus(t, repo, "doc-a", "page", "Doc A", [][]float32{
			{0.2, 0, 0, 0, 0, 0, 0, 0},
			{0.9, 0, 0, 0, 0, 0, 0, 0},
			{0.5, 0, 0, 0, 0, 0, 0, 0},
		})

		svc := search.New(repo.Corpus())
		results, err := svc.Search(ctx, query, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(3)

		for i := 1; i < len(results); i++ {
			gt.Bool(t, results[i-1].Similarity >= results[i].Similarity).True()
		}
		gt.Value(t, results[0].Content).Equal("content of doc-a chunk 1")
	})

	t.Run("topK bounds the result set", func(t *testing.T) {
		repo := memory.New()
		vectors := make([][]float32, 10)
		for i := range vectors {
			v := make([]float32, dim)
			v[0] = float32(i) / 10
			vectors[i] = v
		}
		seedCorpus(t, repo, "doc-b", "page", "Doc B", vectors)

		svc := search.New(repo.Corpus())
		results, err := svc.Search(ctx, unitVector(dim, 0), 4)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(4)
	})

	t.Run("malformed vectors rank behind every well-formed one", func(t *testing.T) {
		repo := memory.New()
		seedCorpus(t, repo, "doc-c", "page", "Doc C", [][]float32{
			{},                        // empty
			{0.1, 0.2},                // wrong dimension
			{-0.5, 0, 0, 0, 0, 0, 0, 0}, // negative but well-formed
		})

		svc := search.New(repo.Corpus())
		results, err := svc.Search(ctx, unitVector(dim, 0), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(3)

		// The well-formed negative-similarity chunk still beats the
		// malformed ones.
		gt.Value(t, results[0].Content).Equal("content of doc-c chunk 2")
		gt.Value(t, results[1].Similarity).Equal(float64(-1))
		gt.Value(t, results[2].Similarity).Equal(float64(-1))
	})

	t.Run("ties keep insertion order", func(t *testing.T) {
		repo := memory.New()
		same := []float32{0.5, 0, 0, 0, 0, 0, 0, 0}
		seedCorpus(t, repo, "doc-d", "page", "Doc D", [][]float32{same, same, same})

		svc := search.New(repo.Corpus())
		results, err := svc.Search(ctx, unitVector(dim, 0), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(3)

		for i, r := range results {
			gt.Value(t, r.Content).Equal(fmt.Sprintf("content of doc-d chunk %d", i))
		}
	})

	t.Run("joined results carry document metadata", func(t *testing.T) {
		repo := memory.New()
		seedCorpus(t, repo, "doc-e", "route", "ICT Level 3", [][]float32{
			{0.7, 0, 0, 0, 0, 0, 0, 0},
		})

		svc := search.New(repo.Corpus())
		results, err := svc.Search(ctx, unitVector(dim, 0), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(1)
		gt.Value(t, results[0].Title).Equal("ICT Level 3")
		gt.Value(t, results[0].SourceType).Equal("route")
		gt.Value(t, results[0].URL).Equal("https://example.com/doc-e")
	})

	t.Run("empty corpus returns empty result", func(t *testing.T) {
		repo := memory.New()
		svc := search.New(repo.Corpus())
		results, err := svc.Search(ctx, unitVector(dim, 0), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(0)
	})
}
