package driven

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// ContentLoader reads source files for ingestion.
type ContentLoader interface {
	// Load returns the supported files in dir, sorted by path.
	// A missing directory yields no sources and no error.
	Load(ctx context.Context, dir string) ([]domain.RawSource, error)
}
