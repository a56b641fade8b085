package driven

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// Normaliser turns a raw source file into text with provenance.
// Each normaliser handles specific MIME types (e.g., Markdown, plain text).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	Priority() int

	// Normalise parses frontmatter and body.
	// Returns domain.ErrEmptyContent when the body is blank.
	Normalise(ctx context.Context, raw *domain.RawSource) (*domain.SourceText, error)
}
