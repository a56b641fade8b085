// Package markdown normalises Markdown content files.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/normalisers/frontmatter"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	codeBlock    = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	emphasis     = regexp.MustCompile(`(\*\*|__|\*)`)
	blockquote   = regexp.MustCompile(`(?m)^>[ \t]?`)
	hr           = regexp.MustCompile(`(?m)^[-*_]{3,}[ \t]*$`)
	listMarkers  = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberedList = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	htmlTags     = regexp.MustCompile(`<[^>]+>`)
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normaliser handles Markdown and MDX files.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/mdx"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise splits frontmatter and strips markup from the body.
// Paragraph breaks are preserved for the chunker.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawSource) (*domain.SourceText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	meta, body, err := frontmatter.Parse(string(raw.Content), raw.Path)
	if err != nil {
		return nil, err
	}

	body = stripMarkdown(body)
	if body == "" {
		return nil, domain.ErrEmptyContent
	}

	return &domain.SourceText{Meta: meta, Body: body}, nil
}

// stripMarkdown removes common markdown formatting for plain text content.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = hr.ReplaceAllString(content, "")
	content = headings.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = htmlTags.ReplaceAllString(content, "")
	content = manyNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
