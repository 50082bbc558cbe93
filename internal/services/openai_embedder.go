package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"wpcat/internal/models"
)

// OllamaEmbedder generates embeddings through Ollama's OpenAI-compatible
// /v1/embeddings endpoint. One embedder (one model) serves a whole run so
// similarity scores stay comparable.
type OllamaEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOllamaEmbedder points an OpenAI client at the local Ollama service.
// Ollama ignores the API key but the client requires one.
func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"

	dim := 0
	switch model {
	case "nomic-embed-text":
		dim = 768
	case "mxbai-embed-large":
		dim = 1024
	case "all-minilm":
		dim = 384
	default:
		log.Warnf("unknown embedding model %q, dimension will be taken from the first response", model)
	}

	return &OllamaEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		dim:    dim,
	}
}

func (p *OllamaEmbedder) Name() string      { return "ollama" }
func (p *OllamaEmbedder) ModelName() string { return p.model }
func (p *OllamaEmbedder) Dimension() int    { return p.dim }

func (p *OllamaEmbedder) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	vecs, err := p.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return pgvector.Vector{}, err
	}
	return vecs[0], nil
}

func (p *OllamaEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if len(texts) == 0 {
		return []pgvector.Vector{}, nil
	}

	req := openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(p.model),
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingFailed, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", models.ErrEmbeddingFailed, len(resp.Data), len(texts))
	}

	results := make([]pgvector.Vector, len(texts))
	for i, data := range resp.Data {
		if len(data.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", models.ErrEmbeddingFailed, i)
		}
		if p.dim == 0 {
			p.dim = len(data.Embedding)
		} else if len(data.Embedding) != p.dim {
			return nil, fmt.Errorf("%w: dimension %d at index %d, want %d", models.ErrEmbeddingFailed, len(data.Embedding), i, p.dim)
		}
		results[i] = pgvector.NewVector(data.Embedding)
	}
	return results, nil
}

var _ EmbeddingProvider = (*OllamaEmbedder)(nil)
