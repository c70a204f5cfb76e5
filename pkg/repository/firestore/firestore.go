package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/interfaces"
	"github.com/solveway/eli/pkg/domain/model/auth"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = goerr.New("record not found")

// Firestore is the Cloud Firestore repository backend.
type Firestore struct {
	client  *firestore.Client
	corpus  *corpusRepository
	chatLog *chatLogRepository
	lead    *leadRepository
	learner *learnerRepository
	tokens  *tokenRepository
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	return &Firestore{
		client:  client,
		corpus:  newCorpusRepository(client),
		chatLog: newChatLogRepository(client),
		lead:    newLeadRepository(client),
		learner: newLearnerRepository(client),
		tokens:  newTokenRepository(client),
	}, nil
}

func (f *Firestore) Corpus() interfaces.CorpusRepository {
	return f.corpus
}

func (f *Firestore) ChatLog() interfaces.ChatLogRepository {
	return f.chatLog
}

func (f *Firestore) Lead() interfaces.LeadRepository {
	return f.lead
}

func (f *Firestore) Learner() interfaces.LearnerRepository {
	return f.learner
}

func (f *Firestore) PutToken(ctx context.Context, token *auth.Token) error {
	return f.tokens.Put(ctx, token)
}

func (f *Firestore) GetToken(ctx context.Context, secret string) (*auth.Token, error) {
	return f.tokens.Get(ctx, secret)
}

func (f *Firestore) DeleteToken(ctx context.Context, tokenID string) error {
	return f.tokens.Delete(ctx, tokenID)
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
