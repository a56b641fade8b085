package driven

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// PostProcessor processes source text to produce chunks.
// PostProcessors are chained in a pipeline (e.g., chunking, cleaning).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a source and returns chunks.
	// If the processor creates chunks (e.g., chunker), it receives nil and returns new chunks.
	// If the processor modifies chunks (e.g., cleaner), it receives and returns chunks.
	Process(ctx context.Context, src *domain.SourceText, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the source through all processors in order.
	Process(ctx context.Context, src *domain.SourceText) ([]domain.Chunk, error)
}
