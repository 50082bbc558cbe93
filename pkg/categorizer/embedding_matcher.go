package categorizer

import (
	"context"
	"fmt"
	"math"

	"github.com/pgvector/pgvector-go"
	log "github.com/sirupsen/logrus"

	"wpcat/internal/models"
)

// DefaultThreshold is the cosine similarity a category must reach to be
// reused instead of creating a new one.
const DefaultThreshold = 0.70

// EmbeddingMatcher selects the existing category whose name is most
// similar to the suggestion in embedding space. Both sides are embedded
// by the same model, so self-similarity sits at 1.0 and the threshold is
// meaningful across a run.
type EmbeddingMatcher struct {
	embedder  Embedder
	threshold float64
}

func NewEmbeddingMatcher(embedder Embedder, threshold float64) *EmbeddingMatcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &EmbeddingMatcher{embedder: embedder, threshold: threshold}
}

// Match embeds the suggestion and every category name, then picks the
// category with maximum cosine similarity if it clears the threshold.
// An empty category list is a plain "no match". When several categories
// tie at the maximum, whichever the scan finds first wins; the ordering
// is not guaranteed and callers must not rely on it.
func (m *EmbeddingMatcher) Match(ctx context.Context, suggestion string, categories []models.Category) (MatchResult, error) {
	if len(categories) == 0 {
		return MatchResult{}, nil
	}

	suggestionVec, err := m.embedder.GenerateEmbedding(ctx, suggestion)
	if err != nil {
		return MatchResult{}, fmt.Errorf("embedding suggestion %q: %w", suggestion, err)
	}

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	nameVecs, err := m.embedder.GenerateEmbeddings(ctx, names)
	if err != nil {
		return MatchResult{}, fmt.Errorf("embedding %d category names: %w", len(names), err)
	}
	if len(nameVecs) != len(categories) {
		return MatchResult{}, fmt.Errorf("got %d name embeddings for %d categories", len(nameVecs), len(categories))
	}

	bestIdx := -1
	bestScore := math.Inf(-1)
	for i, vec := range nameVecs {
		score := cosineSimilarity(suggestionVec, vec)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	best := categories[bestIdx]
	log.Debugf("best match for %q: %q (%.3f, model %s)", suggestion, best.Name, bestScore, m.embedder.ModelName())

	if bestScore < m.threshold {
		return MatchResult{Score: bestScore}, nil
	}
	return MatchResult{
		Matched:      true,
		CategoryID:   best.ID,
		CategoryName: best.Name,
		Score:        bestScore,
	}, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// Zero vectors and mismatched dimensions score 0 rather than erroring;
// they can only come from a broken provider and should never match.
func cosineSimilarity(a, b pgvector.Vector) float64 {
	as, bs := a.Slice(), b.Slice()
	if len(as) == 0 || len(as) != len(bs) {
		return 0
	}
	var dot, normA, normB float64
	for i := range as {
		dot += float64(as[i]) * float64(bs[i])
		normA += float64(as[i]) * float64(as[i])
		normB += float64(bs[i]) * float64(bs[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ Matcher = (*EmbeddingMatcher)(nil)
