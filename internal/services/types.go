package services

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingProvider generates fixed-dimension embeddings. Both the
// suggestion string and the category names must be embedded by the same
// provider within a run, otherwise similarity scores are not comparable.
type EmbeddingProvider interface {
	Name() string
	ModelName() string
	Dimension() int
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error)
}

// RetryStrategy is a pure backoff policy: given a zero-based attempt
// number it returns the delay in milliseconds before the next attempt,
// or a negative value to stop retrying. Separated from the transport so
// it is testable with a fake failing client.
type RetryStrategy interface {
	NextBackoff(attempt int) int64
}

// SimpleRetryStrategy provides exponential backoff with a fixed attempt
// limit: BaseDelay * 2^attempt, capped at 30s.
type SimpleRetryStrategy struct {
	MaxAttempts int
	BaseDelayMs int64
}

func (s *SimpleRetryStrategy) NextBackoff(attempt int) int64 {
	if s.MaxAttempts <= 0 || attempt >= s.MaxAttempts {
		return -1
	}
	backoff := s.BaseDelayMs * (1 << attempt)
	const maxDelay = int64(30000)
	if backoff > maxDelay {
		backoff = maxDelay
	}
	return backoff
}
