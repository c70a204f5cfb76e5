package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/solveway/eli/pkg/agent/tool"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/model/auth"
	"github.com/solveway/eli/pkg/domain/types"
	"github.com/solveway/eli/pkg/metrics"
	"github.com/solveway/eli/pkg/service/retrieval"
	"github.com/solveway/eli/pkg/utils/async"
	"github.com/solveway/eli/pkg/utils/logging"
	"github.com/solveway/eli/pkg/utils/safe"
)

//go:embed prompt/public_system.md
var publicSystemPromptTmpl string

//go:embed prompt/internal_system.md
var internalSystemPromptTmpl string

var (
	publicSystemPrompt   = template.Must(template.New("public_system").Parse(publicSystemPromptTmpl))
	internalSystemPrompt = template.Must(template.New("internal_system").Parse(internalSystemPromptTmpl))
)

// anonymousSessionID is logged when the client did not send a session ID.
const anonymousSessionID = "anon_session"

// ChatInput is one chat request: the conversation so far (last entry is
// the message to answer) plus its surface and page context.
type ChatInput struct {
	SessionID string
	Surface   types.Surface
	Messages  []model.Message
	Page      *model.PageContext
}

// promptData feeds the surface system prompt templates.
type promptData struct {
	Context       string
	CarouselToken string
	History       []model.Message
	Surface       string
	PageTitle     string
	PageURL       string
	HomeURL       string
	PrincipalName string
}

// Chat runs one retrieval-augmented turn and streams the assistant's text
// to w as it is produced. The turn is logged asynchronously after the
// stream completes; a disconnected client does not abort generation.
func (uc *UseCases) Chat(ctx context.Context, input *ChatInput, w io.Writer) error {
	logger := logging.From(ctx)

	userMessage, err := latestUserMessage(input)
	if err != nil {
		return err
	}

	principal := auth.PrincipalFrom(ctx)
	if input.Surface.RequiresAuth() && principal == nil {
		return goerr.Wrap(ErrUnauthorized, "internal surface requires an authenticated principal")
	}

	// Retrieval failure degrades to an empty context instead of failing
	// the turn.
	results, err := uc.retrieve(ctx, userMessage)
	if err != nil {
		logger.Warn("retrieval degraded, answering without context", "error", err.Error())
		results = nil
	}

	asm := uc.assembler.Assemble(results, userMessage, input.Surface)

	systemPrompt, err := uc.buildSystemPrompt(input, asm, principal)
	if err != nil {
		return goerr.Wrap(err, "failed to build system prompt")
	}

	var fullText string
	if input.Surface == types.SurfaceInternal {
		fullText, err = uc.runInternalAgent(ctx, systemPrompt, userMessage, w)
	} else {
		fullText, err = uc.streamPublic(ctx, systemPrompt, userMessage, w)
	}
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues(input.Surface.String(), "error").Inc()
		return err
	}

	metrics.ChatTurnsTotal.WithLabelValues(input.Surface.String(), "success").Inc()
	uc.logTurn(ctx, input, userMessage, fullText, asm, principal)

	return nil
}

func latestUserMessage(input *ChatInput) (string, error) {
	if len(input.Messages) == 0 {
		return "", goerr.Wrap(ErrBadRequest, "messages are required")
	}
	last := input.Messages[len(input.Messages)-1]
	if strings.TrimSpace(last.Content) == "" {
		return "", goerr.Wrap(ErrBadRequest, "latest message is empty")
	}
	return last.Content, nil
}

// retrieve embeds the user message and ranks the corpus against it.
func (uc *UseCases) retrieve(ctx context.Context, userMessage string) ([]*model.RetrievalResult, error) {
	// Newlines degrade embedding quality for short queries
	query := strings.ReplaceAll(userMessage, "\n", " ")

	started := time.Now()
	vectors, err := uc.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{query})
	metrics.EmbeddingRequestDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate query embedding")
	}
	if len(vectors) == 0 {
		return nil, goerr.New("embedding response is empty")
	}

	queryVector := make([]float32, len(vectors[0]))
	for i, v := range vectors[0] {
		queryVector[i] = float32(v)
	}

	return uc.search.Search(ctx, queryVector, uc.topK)
}

func (uc *UseCases) buildSystemPrompt(input *ChatInput, asm *retrieval.Assembly, principal *auth.Principal) (string, error) {
	data := promptData{
		Context: asm.ContextBlock,
		Surface: input.Surface.String(),
		HomeURL: uc.assembler.HomeURL(),
	}
	if len(input.Messages) > 1 {
		data.History = input.Messages[:len(input.Messages)-1]
	}
	if input.Page != nil {
		data.PageTitle = input.Page.Title
		data.PageURL = input.Page.URL
	}
	if data.PageTitle == "" {
		data.PageTitle = "Unknown"
	}
	if data.PageURL == "" {
		data.PageURL = "Unknown"
	}
	if asm.Recommendation != nil {
		data.CarouselToken = asm.Recommendation.Token()
	}

	tmpl := publicSystemPrompt
	if input.Surface == types.SurfaceInternal {
		tmpl = internalSystemPrompt
		if principal != nil {
			data.PrincipalName = principal.Name
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render system prompt template")
	}
	return buf.String(), nil
}

// streamPublic drives a plain session without tools, forwarding fragments
// to w as they arrive.
func (uc *UseCases) streamPublic(ctx context.Context, systemPrompt, userMessage string, w io.Writer) (string, error) {
	session, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	stream, err := session.GenerateStream(ctx, gollem.Text(userMessage))
	if err != nil {
		return "", goerr.Wrap(err, "failed to start response stream")
	}

	var sb strings.Builder
	for resp := range stream {
		if resp == nil {
			continue
		}
		for _, text := range resp.Texts {
			if text == "" {
				continue
			}
			sb.WriteString(text)
			safe.WriteString(ctx, w, text)
			safe.Flush(w)
		}
	}

	return sb.String(), nil
}

// runInternalAgent drives a tool-calling agent for the dashboard surface.
// Tool failures are returned to the model as failed tool results, not to
// the caller; only a failed generation surfaces here.
func (uc *UseCases) runInternalAgent(ctx context.Context, systemPrompt, userMessage string, w io.Writer) (string, error) {
	// Tool progress messages stream to the client between agent rounds.
	ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
		safe.WriteString(ctx, w, message+"\n")
		safe.Flush(w)
	})

	agent := gollem.New(uc.llmClient,
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithTools(uc.tools...),
		gollem.WithLoopLimit(uc.loopLimit),
	)

	resp, err := agent.Execute(ctx, gollem.Text(userMessage))
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute dashboard agent")
	}

	fullText := strings.Join(resp.Texts, "\n")
	safe.WriteString(ctx, w, fullText)
	safe.Flush(w)

	return fullText, nil
}

// logTurn persists the completed exchange off the request path. Failures
// reach the operator log only; the client response is already complete.
func (uc *UseCases) logTurn(ctx context.Context, input *ChatInput, userMessage, fullText string, asm *retrieval.Assembly, principal *auth.Principal) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = anonymousSessionID
	}

	metadata := model.ChatMetadata{
		Surface:              input.Surface.String(),
		IsCourseQuery:        asm.CourseQuery,
		SourcesFound:         asm.CourseSources,
		GeneratedTokens:      uc.countTokens(fullText),
		HasCarouselGenerated: asm.Recommendation != nil,
	}
	if input.Page != nil {
		metadata.Page = input.Page.URL
	}
	if principal != nil {
		metadata.UserID = principal.ID
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := uc.repo.ChatLog().Create(ctx, &model.ChatLog{
			SessionID:         sessionID,
			UserMessage:       userMessage,
			AssistantResponse: fullText,
			Metadata:          metadata,
		})
		if err != nil {
			return goerr.Wrap(err, "failed to log chat turn",
				goerr.V("sessionID", sessionID),
			)
		}
		return nil
	})
}
