package categorizer

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"wpcat/internal/models"
)

// MatchResult is the outcome of reconciling one suggestion against the
// current category set. Matched is true iff CategoryID and CategoryName
// are set.
type MatchResult struct {
	Matched      bool
	CategoryID   int
	CategoryName string
	Score        float64
}

// Suggester produces a free-text category suggestion for a post body.
type Suggester interface {
	SuggestCategory(ctx context.Context, text string) (string, error)
}

// Matcher reconciles a suggestion against known categories, either
// selecting an existing category or reporting no match. "No match" is an
// ordinary result, not an error.
type Matcher interface {
	Match(ctx context.Context, suggestion string, categories []models.Category) (MatchResult, error)
}

// Embedder is the slice of the embedding service the matcher needs.
type Embedder interface {
	ModelName() string
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error)
}
