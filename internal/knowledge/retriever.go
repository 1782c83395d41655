// Package knowledge searches the vector store of past projects and pricing
// policies that grounds the agent's answers.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/genai"

	logx "github.com/procode-bot/server/pkg/logger"
)

// Config carries the vector store and embedding settings.
type Config struct {
	Host       string `envconfig:"QDRANT_HOST" default:"localhost"`
	Port       int    `envconfig:"QDRANT_PORT" default:"6334"`
	APIKey     string `envconfig:"QDRANT_API_KEY"`
	UseTLS     bool   `envconfig:"QDRANT_USE_TLS" default:"false"`
	Collection string `envconfig:"QDRANT_COLLECTION" default:"procode_knowledge"`
	EmbedModel string `envconfig:"QDRANT_EMBED_MODEL" default:"gemini-embedding-001"`
	Limit      int    `envconfig:"QDRANT_LIMIT" default:"3"`
}

// Retriever embeds queries with Gemini and runs similarity search against
// Qdrant. Both clients are injected; the retriever owns neither lifecycle
// beyond Close on the Qdrant connection it opened.
type Retriever struct {
	qc   *qdrant.Client
	genc *genai.Client
	cfg  Config
}

func NewRetriever(genc *genai.Client, cfg Config) (*Retriever, error) {
	qc, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}
	return &Retriever{qc: qc, genc: genc, cfg: cfg}, nil
}

// RetrieveSimilarProjects embeds the query and returns the top matching
// snippets formatted for the transcript. An empty match set yields a
// "no results" sentinel with a nil error; only connectivity or embedding
// failures surface as errors.
func (r *Retriever) RetrieveSimilarProjects(ctx context.Context, query string) (string, error) {
	logx.Debug().Str("query", query).Msg("Searching knowledge base")

	emb, err := r.genc.Models.EmbedContent(ctx, r.cfg.EmbedModel, genai.Text(query), nil)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	if len(emb.Embeddings) == 0 || len(emb.Embeddings[0].Values) == 0 {
		return "", fmt.Errorf("embed query: empty embedding for %q", query)
	}

	points, err := r.qc.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.cfg.Collection,
		Query:          qdrant.NewQuery(emb.Embeddings[0].Values...),
		Limit:          qdrant.PtrOf(uint64(r.cfg.Limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logx.Error().Err(err).Str("collection", r.cfg.Collection).Msg("Qdrant query failed")
		return "", fmt.Errorf("qdrant query: %w", err)
	}

	if len(points) == 0 {
		return fmt.Sprintf("No results found for %s", query), nil
	}

	snippets := make([]string, 0, len(points))
	for _, hit := range points {
		content := payloadString(hit.Payload, "page_content", "No content available")
		source := payloadString(hit.Payload, "source", "Unknown")
		snippets = append(snippets, fmt.Sprintf("--- Snippet from %s ---\n%s", source, content))
	}
	return strings.Join(snippets, "\n\n"), nil
}

// Close releases the Qdrant connection.
func (r *Retriever) Close() error {
	return r.qc.Close()
}

func payloadString(payload map[string]*qdrant.Value, key, fallback string) string {
	v, ok := payload[key]
	if !ok {
		return fallback
	}
	if s := v.GetStringValue(); s != "" {
		return s
	}
	return fallback
}
