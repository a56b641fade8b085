package driven

import (
	"context"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a source file.
// It maintains a priority-ordered list of normalisers and dispatches
// based on MIME type.
type NormaliserRegistry interface {
	// Normalise transforms a raw source using the best matching normaliser.
	Normalise(ctx context.Context, raw *domain.RawSource) (*domain.SourceText, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
