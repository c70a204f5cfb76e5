package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/pkoukk/tiktoken-go"
	"github.com/solveway/eli/pkg/domain/interfaces"
	"github.com/solveway/eli/pkg/service/retrieval"
	"github.com/solveway/eli/pkg/service/search"
	"github.com/solveway/eli/pkg/utils/logging"
)

// tokenEncoding is the tokenizer used for the generated_tokens metadata
// field. It matches the provider's chat model family closely enough for
// analytics purposes.
const tokenEncoding = "cl100k_base"

// defaultLoopLimit bounds tool-calling rounds on the internal surface.
const defaultLoopLimit = 8

type UseCases struct {
	repo      interfaces.Repository
	llmClient gollem.LLMClient
	search    *search.Service
	assembler *retrieval.Assembler
	tools     []gollem.Tool
	identity  interfaces.IdentityProvider

	topK      int
	loopLimit int
	encoder   *tiktoken.Tiktoken
}

type Option func(*UseCases)

// WithTools sets the tool set offered to the internal surface agent.
func WithTools(tools ...gollem.Tool) Option {
	return func(uc *UseCases) {
		uc.tools = tools
	}
}

// WithIdentityProvider overrides the repository-backed token validator.
func WithIdentityProvider(p interfaces.IdentityProvider) Option {
	return func(uc *UseCases) {
		uc.identity = p
	}
}

// WithTopK overrides the retrieval depth.
func WithTopK(topK int) Option {
	return func(uc *UseCases) {
		uc.topK = topK
	}
}

// WithLoopLimit overrides the tool-calling round bound.
func WithLoopLimit(n int) Option {
	return func(uc *UseCases) {
		uc.loopLimit = n
	}
}

func New(repo interfaces.Repository, llmClient gollem.LLMClient, homeURL string, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		llmClient: llmClient,
		search:    search.New(repo.Corpus()),
		assembler: retrieval.New(homeURL),
		topK:      search.DefaultTopK,
		loopLimit: defaultLoopLimit,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.identity == nil {
		uc.identity = NewTokenIdentityProvider(repo)
	}

	// Token counting is analytics only; a missing encoding must never
	// block chat.
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		logging.Default().Warn("tokenizer unavailable, generated_tokens will be zero",
			"encoding", tokenEncoding,
			"error", err.Error(),
		)
	} else {
		uc.encoder = enc
	}

	return uc
}

// Identity exposes the configured identity provider for the HTTP layer.
func (uc *UseCases) Identity() interfaces.IdentityProvider {
	return uc.identity
}

func (uc *UseCases) countTokens(text string) int {
	if uc.encoder == nil || text == "" {
		return 0
	}
	return len(uc.encoder.Encode(text, nil, nil))
}
