// Package throttle rate-limits calls to an embedding service.
package throttle

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultBurst is the number of calls allowed back to back.
const DefaultBurst = 4

// EmbeddingService wraps another EmbeddingService with a token bucket.
// Each Embed or EmbedBatch call takes one token.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap returns next limited to requestsPerSecond calls per second with
// the given burst. A non-positive rate disables limiting and returns next
// unchanged.
func Wrap(next driven.EmbeddingService, requestsPerSecond float64, burst int) driven.EmbeddingService {
	if requestsPerSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &EmbeddingService{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for a token and delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle: %w", err)
	}
	return s.next.Embed(ctx, text)
}

// EmbedBatch waits for a token and delegates.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle: %w", err)
	}
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.next.Dimensions() }

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string { return s.next.ModelName() }

// Ping is not throttled.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error { return s.next.Close() }
