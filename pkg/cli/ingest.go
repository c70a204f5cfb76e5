package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/cli/config"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/domain/types"
	"github.com/solveway/eli/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// chunkSize is the target chunk length in bytes. Chunks break on paragraph
// boundaries, so actual sizes vary around this.
const chunkSize = 1200

// ingestDocument is the input file format: one entry per source document.
type ingestDocument struct {
	SourceType string `json:"source_type"`
	SourceSlug string `json:"source_slug"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Content    string `json:"content"`
}

func cmdIngest() *cli.Command {
	var input string
	var repoCfg config.Repository
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Usage:       "Path to a JSON file with documents to ingest",
			Required:    true,
			Sources:     cli.EnvVars("ELI_INGEST_INPUT"),
			Destination: &input,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Chunk, embed and store content documents",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return goerr.Wrap(err, "failed to read input file", goerr.V("path", input))
			}

			var docs []ingestDocument
			if err := json.Unmarshal(data, &docs); err != nil {
				return goerr.Wrap(err, "failed to parse input file", goerr.V("path", input))
			}

			logger := logging.Default()
			for _, d := range docs {
				if err := ingestOne(ctx, repo.Corpus().PutDocument, llmClient.GenerateEmbedding, &d); err != nil {
					return goerr.Wrap(err, "failed to ingest document",
						goerr.V("sourceType", d.SourceType),
						goerr.V("sourceSlug", d.SourceSlug),
					)
				}
				logger.Info("ingested document", "title", d.Title, "source_type", d.SourceType)
			}

			logger.Info("ingestion complete", "documents", len(docs))
			return nil
		},
	}
}

type putDocumentFunc func(ctx context.Context, doc *model.Document, chunks []*model.Chunk, embeddings []*model.Embedding) error

type embedFunc func(ctx context.Context, dimension int, input []string) ([][]float64, error)

func ingestOne(ctx context.Context, put putDocumentFunc, embed embedFunc, d *ingestDocument) error {
	if d.SourceType == "" || d.SourceSlug == "" {
		return goerr.New("source_type and source_slug are required")
	}

	docID := types.DocumentID(d.SourceType + ":" + d.SourceSlug)
	doc := &model.Document{
		ID:         docID,
		SourceType: d.SourceType,
		SourceSlug: d.SourceSlug,
		Title:      d.Title,
		URL:        d.URL,
		CreatedAt:  time.Now().UTC(),
	}

	texts := splitChunks(d.Content)
	if len(texts) == 0 {
		return goerr.New("document has no content")
	}

	vectors, err := embed(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return goerr.Wrap(err, "failed to embed chunks")
	}
	if len(vectors) != len(texts) {
		return goerr.New("embedding count mismatch",
			goerr.V("chunks", len(texts)),
			goerr.V("vectors", len(vectors)),
		)
	}

	chunks := make([]*model.Chunk, len(texts))
	embeddings := make([]*model.Embedding, len(texts))
	for i, text := range texts {
		chunkID := types.ChunkID(fmt.Sprintf("%s#%d", docID, i))
		chunks[i] = &model.Chunk{
			ID:         chunkID,
			DocumentID: docID,
			Content:    text,
			ChunkIndex: i,
		}

		vec := make([]float32, len(vectors[i]))
		for j, v := range vectors[i] {
			vec[j] = float32(v)
		}
		embeddings[i] = &model.Embedding{ChunkID: chunkID, Vector: vec}
	}

	return put(ctx, doc, chunks, embeddings)
}

// splitChunks breaks content into roughly chunkSize pieces on paragraph
// boundaries. A single oversized paragraph becomes its own chunk rather
// than being split mid-sentence.
func splitChunks(content string) []string {
	paragraphs := strings.Split(content, "\n\n")

	var chunks []string
	var sb strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if sb.Len() > 0 && sb.Len()+len(p) > chunkSize {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}

	return chunks
}
