package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
)

const collectionLeads = "eli_leads"

type leadDoc struct {
	ID            string    `firestore:"ID"`
	Name          string    `firestore:"Name"`
	Email         string    `firestore:"Email"`
	Phone         string    `firestore:"Phone"`
	Intent        string    `firestore:"Intent"`
	SourceURL     string    `firestore:"SourceURL"`
	ChatSessionID string    `firestore:"ChatSessionID"`
	CreatedAt     time.Time `firestore:"CreatedAt"`
}

type leadRepository struct {
	client *firestore.Client
}

func newLeadRepository(client *firestore.Client) *leadRepository {
	return &leadRepository{client: client}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	cp := *lead
	if cp.ID == "" {
		cp.ID = types.NewLeadID()
	}
	cp.CreatedAt = time.Now().UTC()

	ref := r.client.Collection(collectionLeads).Doc(string(cp.ID))
	if _, err := ref.Set(ctx, &leadDoc{
		ID:            string(cp.ID),
		Name:          cp.Name,
		Email:         cp.Email,
		Phone:         cp.Phone,
		Intent:        cp.Intent,
		SourceURL:     cp.SourceURL,
		ChatSessionID: cp.ChatSessionID,
		CreatedAt:     cp.CreatedAt,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to create lead", goerr.V("email", cp.Email))
	}

	return &cp, nil
}
