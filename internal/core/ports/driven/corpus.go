package driven

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// CorpusReader is the read side of the corpus. The retrieval engine only
// ever reads.
type CorpusReader interface {
	// Load returns every document with its embedding parsed through
	// domain.ParseEmbedding. Unparseable embeddings are returned as nil.
	Load(ctx context.Context) ([]domain.Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}

// CorpusStore is a persisted corpus. Ingestion writes through it.
type CorpusStore interface {
	CorpusReader

	// Insert stores documents. Existing IDs are replaced.
	Insert(ctx context.Context, docs []domain.Document) error

	// Replace atomically swaps the whole corpus for docs.
	Replace(ctx context.Context, docs []domain.Document) error

	// Close releases resources.
	Close() error
}
