package driving

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// IngestService loads, chunks, embeds and stores content files.
type IngestService interface {
	Ingest(ctx context.Context, opts domain.IngestOptions) (*domain.IngestReport, error)
}
