package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/interfaces"
	"github.com/solveway/eli/pkg/domain/model/auth"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = goerr.New("record not found")

// Memory is the in-process repository backend, the default for development
// and tests.
type Memory struct {
	corpus  *corpusRepository
	chatLog *chatLogRepository
	lead    *leadRepository
	learner *learnerRepository
	tokens  *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		corpus:  newCorpusRepository(),
		chatLog: newChatLogRepository(),
		lead:    newLeadRepository(),
		learner: newLearnerRepository(),
		tokens:  newTokenStore(),
	}
}

func (m *Memory) Corpus() interfaces.CorpusRepository {
	return m.corpus
}

func (m *Memory) ChatLog() interfaces.ChatLogRepository {
	return m.chatLog
}

func (m *Memory) Lead() interfaces.LeadRepository {
	return m.lead
}

func (m *Memory) Learner() interfaces.LearnerRepository {
	return m.learner
}

func (m *Memory) PutToken(ctx context.Context, token *auth.Token) error {
	return m.tokens.Put(ctx, token)
}

func (m *Memory) GetToken(ctx context.Context, secret string) (*auth.Token, error) {
	return m.tokens.Get(ctx, secret)
}

func (m *Memory) DeleteToken(ctx context.Context, tokenID string) error {
	return m.tokens.Delete(ctx, tokenID)
}

func (m *Memory) Close() error {
	return nil
}
