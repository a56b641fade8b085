// Package plaintext normalises plain text content files.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/normalisers/frontmatter"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text files. Frontmatter is honoured when present.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise splits frontmatter from the text body.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawSource) (*domain.SourceText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	meta, body, err := frontmatter.Parse(string(raw.Content), raw.Path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyContent
	}

	return &domain.SourceText{Meta: meta, Body: body}, nil
}
