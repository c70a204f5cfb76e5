package search

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/interfaces"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
	"github.com/solveway/eli/pkg/metrics"
	"github.com/solveway/eli/pkg/utils/logging"
)

// DefaultTopK is wide enough that "list all programmes" style queries
// retrieve the full relevant set instead of a truncated list.
const DefaultTopK = 50

// Service ranks the whole corpus against a query vector by brute force.
// Embedding vectors are pre-normalized by the provider, so the dot product
// equals cosine similarity. This is an O(N) scan per query; it holds up to
// low-to-mid thousands of chunks and must be revisited beyond that.
type Service struct {
	repo interfaces.CorpusRepository
}

// New creates a similarity search service over the given corpus.
func New(repo interfaces.CorpusRepository) *Service {
	return &Service{repo: repo}
}

type scoredChunk struct {
	chunkID types.ChunkID
	score   float64
}

// Search returns the topK most similar chunks joined with their parent
// document metadata, ordered by descending similarity. Ties keep the
// original scan order. No score threshold is applied; ranking is relative.
func (s *Service) Search(ctx context.Context, queryVector []float32, topK int) ([]*model.RetrievalResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	embeddings, err := s.repo.ListEmbeddings(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load embeddings")
	}

	scored := make([]scoredChunk, 0, len(embeddings))
	for _, e := range embeddings {
		scored = append(scored, scoredChunk{
			chunkID: e.ChunkID,
			score:   score(queryVector, e.Vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	if len(scored) == 0 {
		return []*model.RetrievalResult{}, nil
	}

	results, err := s.join(ctx, scored)
	if err != nil {
		return nil, err
	}

	metrics.RetrievalResults.Observe(float64(len(results)))
	return results, nil
}

// score is the dot product of query and candidate. Malformed stored
// vectors (empty or wrong dimension) score the minimum possible cosine so
// they sort behind every well-formed vector instead of failing the query.
func score(query []float32, candidate []float32) float64 {
	if len(candidate) == 0 || len(candidate) != len(query) {
		return -1
	}

	var dot float64
	for i := range query {
		dot += float64(query[i]) * float64(candidate[i])
	}
	return dot
}

// join fetches chunk content and parent document metadata for the ranked
// IDs and attaches the scores, preserving rank order.
func (s *Service) join(ctx context.Context, ranked []scoredChunk) ([]*model.RetrievalResult, error) {
	ids := make([]types.ChunkID, len(ranked))
	scores := make(map[types.ChunkID]float64, len(ranked))
	for i, sc := range ranked {
		ids[i] = sc.chunkID
		scores[sc.chunkID] = sc.score
	}

	chunks, err := s.repo.GetChunks(ctx, ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch chunks for ranked IDs")
	}

	byID := make(map[types.ChunkID]*model.Chunk, len(chunks))
	docIDs := make([]types.DocumentID, 0, len(chunks))
	seenDocs := make(map[types.DocumentID]bool, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
		if !seenDocs[c.DocumentID] {
			seenDocs[c.DocumentID] = true
			docIDs = append(docIDs, c.DocumentID)
		}
	}

	docs, err := s.repo.GetDocuments(ctx, docIDs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch documents for ranked chunks")
	}
	docByID := make(map[types.DocumentID]*model.Document, len(docs))
	for _, d := range docs {
		docByID[d.ID] = d
	}

	results := make([]*model.RetrievalResult, 0, len(ranked))
	for _, sc := range ranked {
		chunk, ok := byID[sc.chunkID]
		if !ok {
			// Embedding without a chunk; corpus inconsistency, skip it
			logging.From(ctx).Warn("embedding refers to missing chunk", "chunk_id", sc.chunkID)
			continue
		}

		r := &model.RetrievalResult{
			Content:    chunk.Content,
			Similarity: scores[chunk.ID],
			Title:      "Unknown",
			SourceType: "unknown",
		}
		if doc, ok := docByID[chunk.DocumentID]; ok {
			r.Title = doc.Title
			r.URL = doc.URL
			r.SourceType = doc.SourceType
		}
		results = append(results, r)
	}

	return results, nil
}
