package memory_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/model/auth"
	"github.com/solveway/eli/pkg/domain/types"
	"github.com/solveway/eli/pkg/repository/memory"
)

func TestCorpusRepository(t *testing.T) {
	ctx := context.Background()

	putDoc := func(t *testing.T, repo *memory.Memory, slug string, vec []float32) types.ChunkID {
		t.Helper()
		docID := types.DocumentID("route:" + slug)
		chunkID := types.ChunkID(string(docID) + "#0")
		err := repo.Corpus().PutDocument(ctx,
			&model.Document{ID: docID, SourceType: model.SourceTypeRoute, SourceSlug: slug, Title: slug},
			[]*model.Chunk{{ID: chunkID, DocumentID: docID, Content: "about " + slug}},
			[]*model.Embedding{{ChunkID: chunkID, Vector: vec}},
		)
		gt.NoError(t, err).Required()
		return chunkID
	}

	t.Run("embeddings keep insertion order", func(t *testing.T) {
		repo := memory.New()
		first := putDoc(t, repo, "alpha", []float32{1, 0})
		second := putDoc(t, repo, "beta", []float32{0, 1})
		third := putDoc(t, repo, "gamma", []float32{1, 1})

		embeddings, err := repo.Corpus().ListEmbeddings(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, embeddings).Length(3)
		gt.Value(t, embeddings[0].ChunkID).Equal(first)
		gt.Value(t, embeddings[1].ChunkID).Equal(second)
		gt.Value(t, embeddings[2].ChunkID).Equal(third)
	})

	t.Run("re-ingesting a document keeps its original position", func(t *testing.T) {
		repo := memory.New()
		first := putDoc(t, repo, "alpha", []float32{1, 0})
		putDoc(t, repo, "beta", []float32{0, 1})
		putDoc(t, repo, "alpha", []float32{0.5, 0.5})

		embeddings, err := repo.Corpus().ListEmbeddings(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, embeddings).Length(2)
		gt.Value(t, embeddings[0].ChunkID).Equal(first)
		gt.Value(t, embeddings[0].Vector[0]).Equal(float32(0.5))
	})

	t.Run("returned embeddings are copies", func(t *testing.T) {
		repo := memory.New()
		putDoc(t, repo, "alpha", []float32{1, 0})

		embeddings, err := repo.Corpus().ListEmbeddings(ctx)
		gt.NoError(t, err).Required()
		embeddings[0].Vector[0] = 99

		again, err := repo.Corpus().ListEmbeddings(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, again[0].Vector[0]).Equal(float32(1))
	})

	t.Run("unknown chunk and document IDs are skipped", func(t *testing.T) {
		repo := memory.New()
		known := putDoc(t, repo, "alpha", []float32{1, 0})

		chunks, err := repo.Corpus().GetChunks(ctx, []types.ChunkID{known, "route:ghost#0"})
		gt.NoError(t, err).Required()
		gt.Array(t, chunks).Length(1)

		docs, err := repo.Corpus().GetDocuments(ctx, []types.DocumentID{"route:ghost"})
		gt.NoError(t, err).Required()
		gt.Array(t, docs).Length(0)
	})
}

func TestChatLogRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns ID and timestamp on create", func(t *testing.T) {
		repo := memory.New()

		created, err := repo.ChatLog().Create(ctx, &model.ChatLog{
			SessionID:   "sess-1",
			UserMessage: "Hi",
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, created.ID != "").True()
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("lists only the requested session in order", func(t *testing.T) {
		repo := memory.New()

		for _, turn := range []struct{ session, msg string }{
			{"sess-a", "first"},
			{"sess-b", "other"},
			{"sess-a", "second"},
		} {
			_, err := repo.ChatLog().Create(ctx, &model.ChatLog{
				SessionID:   turn.session,
				UserMessage: turn.msg,
			})
			gt.NoError(t, err).Required()
		}

		logs, err := repo.ChatLog().ListBySession(ctx, "sess-a")
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(2)
		gt.Value(t, logs[0].UserMessage).Equal("first")
		gt.Value(t, logs[1].UserMessage).Equal("second")
	})
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()

	token := &auth.Token{
		ID:        "tok-1",
		Secret:    "secret-1",
		Principal: auth.Principal{ID: "staff-1", Name: "Dana Price"},
	}

	t.Run("put and get by secret", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		got, err := repo.GetToken(ctx, "secret-1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal("tok-1")
		gt.Value(t, got.Principal.Name).Equal("Dana Price")
		gt.Bool(t, got.CreatedAt.IsZero()).False()
	})

	t.Run("unknown secret", func(t *testing.T) {
		repo := memory.New()

		_, err := repo.GetToken(ctx, "nope")
		gt.Error(t, err)
	})

	t.Run("delete revokes the secret", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.PutToken(ctx, token)).Required()
		gt.NoError(t, repo.DeleteToken(ctx, "tok-1")).Required()

		_, err := repo.GetToken(ctx, "secret-1")
		gt.Error(t, err)

		gt.Error(t, repo.DeleteToken(ctx, "tok-1"))
	})

	t.Run("token without ID or secret is rejected", func(t *testing.T) {
		repo := memory.New()
		gt.Error(t, repo.PutToken(ctx, &auth.Token{ID: "tok-2"}))
		gt.Error(t, repo.PutToken(ctx, &auth.Token{Secret: "s"}))
	})
}
