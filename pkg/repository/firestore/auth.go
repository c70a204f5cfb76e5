package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model/auth"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collectionTokens = "eli_tokens"

type tokenRepository struct {
	client *firestore.Client
}

func newTokenRepository(client *firestore.Client) *tokenRepository {
	return &tokenRepository{client: client}
}

func (r *tokenRepository) Put(ctx context.Context, token *auth.Token) error {
	if token.ID == "" || token.Secret == "" {
		return goerr.New("token ID and secret are required")
	}

	ref := r.client.Collection(collectionTokens).Doc(token.ID)
	if _, err := ref.Set(ctx, token); err != nil {
		return goerr.Wrap(err, "failed to put token", goerr.V("tokenID", token.ID))
	}
	return nil
}

// Get looks a token up by its wire secret. The secret is indexed as a
// document field, not a document ID, so leaked Firestore document paths
// never expose credentials.
func (r *tokenRepository) Get(ctx context.Context, secret string) (*auth.Token, error) {
	iter := r.client.Collection(collectionTokens).
		Where("Secret", "==", secret).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "unknown token")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query token")
	}

	var token auth.Token
	if err := doc.DataTo(&token); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal token")
	}
	return &token, nil
}

func (r *tokenRepository) Delete(ctx context.Context, tokenID string) error {
	ref := r.client.Collection(collectionTokens).Doc(tokenID)

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "unknown token", goerr.V("tokenID", tokenID))
		}
		return goerr.Wrap(err, "failed to get token", goerr.V("tokenID", tokenID))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete token", goerr.V("tokenID", tokenID))
	}
	return nil
}
