package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
)

const (
	collectionDocuments  = "eli_documents"
	collectionChunks     = "eli_chunks"
	collectionEmbeddings = "eli_embeddings"
)

// getAllBatch bounds one GetAll fan-in. Firestore rejects oversized
// multi-get requests, so large chunk joins are fetched in parallel slices.
const getAllBatch = 100

type documentDoc struct {
	ID         string    `firestore:"ID"`
	SourceType string    `firestore:"SourceType"`
	SourceSlug string    `firestore:"SourceSlug"`
	Title      string    `firestore:"Title"`
	URL        string    `firestore:"URL"`
	CreatedAt  time.Time `firestore:"CreatedAt"`
}

type chunkDoc struct {
	ID         string `firestore:"ID"`
	DocumentID string `firestore:"DocumentID"`
	Content    string `firestore:"Content"`
	ChunkIndex int    `firestore:"ChunkIndex"`
}

type embeddingDoc struct {
	ChunkID string    `firestore:"ChunkID"`
	Vector  []float32 `firestore:"Vector"`
}

func fromDocumentDoc(d *documentDoc) *model.Document {
	return &model.Document{
		ID:         types.DocumentID(d.ID),
		SourceType: d.SourceType,
		SourceSlug: d.SourceSlug,
		Title:      d.Title,
		URL:        d.URL,
		CreatedAt:  d.CreatedAt,
	}
}

func fromChunkDoc(d *chunkDoc) *model.Chunk {
	return &model.Chunk{
		ID:         types.ChunkID(d.ID),
		DocumentID: types.DocumentID(d.DocumentID),
		Content:    d.Content,
		ChunkIndex: d.ChunkIndex,
	}
}

type corpusRepository struct {
	client *firestore.Client
}

func newCorpusRepository(client *firestore.Client) *corpusRepository {
	return &corpusRepository{client: client}
}

func (r *corpusRepository) ListEmbeddings(ctx context.Context) ([]*model.Embedding, error) {
	iter := r.client.Collection(collectionEmbeddings).Documents(ctx)
	defer iter.Stop()

	embeddings := make([]*model.Embedding, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate embeddings")
		}

		var d embeddingDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal embedding", goerr.V("doc", doc.Ref.ID))
		}
		embeddings = append(embeddings, &model.Embedding{
			ChunkID: types.ChunkID(d.ChunkID),
			Vector:  d.Vector,
		})
	}

	return embeddings, nil
}

func (r *corpusRepository) GetChunks(ctx context.Context, ids []types.ChunkID) ([]*model.Chunk, error) {
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = string(id)
	}

	snaps, err := r.getAll(ctx, collectionChunks, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch chunks")
	}

	chunks := make([]*model.Chunk, 0, len(snaps))
	for _, snap := range snaps {
		var d chunkDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk", goerr.V("doc", snap.Ref.ID))
		}
		chunks = append(chunks, fromChunkDoc(&d))
	}
	return chunks, nil
}

func (r *corpusRepository) GetDocuments(ctx context.Context, ids []types.DocumentID) ([]*model.Document, error) {
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = string(id)
	}

	snaps, err := r.getAll(ctx, collectionDocuments, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch documents")
	}

	docs := make([]*model.Document, 0, len(snaps))
	for _, snap := range snaps {
		var d documentDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("doc", snap.Ref.ID))
		}
		docs = append(docs, fromDocumentDoc(&d))
	}
	return docs, nil
}

// getAll multi-gets by document ID in parallel batches, dropping IDs that
// do not exist.
func (r *corpusRepository) getAll(ctx context.Context, collection string, ids []string) ([]*firestore.DocumentSnapshot, error) {
	batches := make([][]string, 0, len(ids)/getAllBatch+1)
	for start := 0; start < len(ids); start += getAllBatch {
		end := start + getAllBatch
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}

	results := make([][]*firestore.DocumentSnapshot, len(batches))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		eg.Go(func() error {
			refs := make([]*firestore.DocumentRef, len(batch))
			for j, id := range batch {
				refs[j] = r.client.Collection(collection).Doc(id)
			}
			snaps, err := r.client.GetAll(egCtx, refs)
			if err != nil {
				return goerr.Wrap(err, "failed to multi-get", goerr.V("collection", collection))
			}
			results[i] = snaps
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := make([]*firestore.DocumentSnapshot, 0, len(ids))
	for _, snaps := range results {
		for _, snap := range snaps {
			if snap.Exists() {
				merged = append(merged, snap)
			}
		}
	}
	return merged, nil
}

func (r *corpusRepository) PutDocument(ctx context.Context, doc *model.Document, chunks []*model.Chunk, embeddings []*model.Embedding) error {
	bw := r.client.BulkWriter(ctx)

	docRef := r.client.Collection(collectionDocuments).Doc(string(doc.ID))
	if _, err := bw.Set(docRef, &documentDoc{
		ID:         string(doc.ID),
		SourceType: doc.SourceType,
		SourceSlug: doc.SourceSlug,
		Title:      doc.Title,
		URL:        doc.URL,
		CreatedAt:  doc.CreatedAt,
	}); err != nil {
		return goerr.Wrap(err, "failed to enqueue document write", goerr.V("documentID", doc.ID))
	}

	for _, c := range chunks {
		ref := r.client.Collection(collectionChunks).Doc(string(c.ID))
		if _, err := bw.Set(ref, &chunkDoc{
			ID:         string(c.ID),
			DocumentID: string(c.DocumentID),
			Content:    c.Content,
			ChunkIndex: c.ChunkIndex,
		}); err != nil {
			return goerr.Wrap(err, "failed to enqueue chunk write", goerr.V("chunkID", c.ID))
		}
	}

	for _, e := range embeddings {
		ref := r.client.Collection(collectionEmbeddings).Doc(string(e.ChunkID))
		if _, err := bw.Set(ref, &embeddingDoc{
			ChunkID: string(e.ChunkID),
			Vector:  e.Vector,
		}); err != nil {
			return goerr.Wrap(err, "failed to enqueue embedding write", goerr.V("chunkID", e.ChunkID))
		}
	}

	bw.End()
	return nil
}
