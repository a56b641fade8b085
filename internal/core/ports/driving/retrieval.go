package driving

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// RetrievalService provides semantic retrieval to external actors.
type RetrievalService interface {
	// Retrieve embeds query, ranks the corpus and returns at most k
	// diversified results. k is clamped with domain.ClampTopK.
	Retrieve(ctx context.Context, query string, k int) (*domain.RetrievalResult, error)

	// Embed returns the embedding for text without touching the cache.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Count returns the corpus size.
	Count(ctx context.Context) (int, error)
}
