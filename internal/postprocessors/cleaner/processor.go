// Package cleaner strips scholarly apparatus from source text.
//
// It removes bracketed citations, page and figure references, paratext
// markers such as [ILLUSTRATION], chapter markers and OCR image tokens,
// then tidies whitespace while keeping paragraph breaks.
package cleaner

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

const allowedPunct = ".,;:!?-'\"()[]—–/&_ %"

// Patterns are applied in order.
var apparatus = []*regexp.Regexp{
	regexp.MustCompile(`\[\s*\d+[\w\-]*\s*\]`),
	regexp.MustCompile(`(?i)\(\s*p(?:p\.)?\.?\s*\d+[\-–]?\d*\s*\)`),
	regexp.MustCompile(`(?i)\[\s*pg\.?\s*\d+(?:[\-–]\d+)?\s*\]`),
	regexp.MustCompile(`\[\s*\d+(?:\.\d+)?\s*[\-–]\s*\d+(?:\.\d+)?\s*\]`),
	regexp.MustCompile(`\[\s*\d+\.\d+\s*\]`),
	regexp.MustCompile(`\[\s*[A-Z]\s*\]`),
	regexp.MustCompile(`\[[A-Z][A-Z \t\-]{1,40}\]`),
	regexp.MustCompile(`\([A-Z][A-Z \t\-]{1,40}\)`),
	regexp.MustCompile(`(?mi)^[ \t]*DEFINITIONS[ \t]*$`),
	regexp.MustCompile(`(?i)\bExper\.\s*\d+\.?[ \t]*`),
	regexp.MustCompile(`(?mi)^[ \t]*CHAPTER[ \t]+[IVXLCDM]+\.?[ \t]*(?:[:.\-][ \t]*)?`),
	regexp.MustCompile(`(?m)^[ \t]*(?:[§¶][ \t]*)?\d{1,4}\.(?:[ \t]+|$)`),
	regexp.MustCompile(`(?mi)^[ \t]*image\d+[ \t]*$`),
	regexp.MustCompile(`(?i)\[\s*(?:in\s+)?figs?\.?\s*\d+(?:\s*[,–\-]\s*\d+)*[a-z]?\s*\.?\s*\]`),
	regexp.MustCompile(`(?i)\(\s*(?:in\s+)?figs?\.?\s*\d+(?:\s*[,–\-]\s*\d+)*[a-z]?\s*\.?\s*\)`),
	regexp.MustCompile(`(?i)\bfigs?\.\s*\d+(?:\s*[,–\-]\s*\d+)*[a-z]?\b\.?`),
}

var (
	inlineSpace  = regexp.MustCompile(`[ \t\v\r\f]+`)
	aroundBreak  = regexp.MustCompile(` *\n *`)
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// Processor cleans source text. Placed before the chunker it rewrites the
// source body. Placed after, it cleans each chunk and drops emptied ones.
type Processor struct {
	preserveUnicode bool
}

// Option configures the cleaner.
type Option func(*Processor)

// WithPreserveUnicode keeps characters outside the allowed punctuation set.
func WithPreserveUnicode() Option {
	return func(p *Processor) {
		p.preserveUnicode = true
	}
}

// New creates a cleaner.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process cleans the body when chunks is nil, else each chunk.
func (p *Processor) Process(_ context.Context, src *domain.SourceText, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if chunks == nil {
		src.Body = p.Clean(src.Body)
		return nil, nil
	}

	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		text := p.Clean(c.Content)
		if text == "" {
			continue
		}
		out = append(out, domain.Chunk{Position: len(out), Content: text})
	}
	return out, nil
}

// Clean applies the full cleaning pass to text.
func (p *Processor) Clean(text string) string {
	t := norm.NFKC.String(text)
	t = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) {
			return r
		}
		return ' '
	}, t)

	for _, re := range apparatus {
		t = re.ReplaceAllString(t, "")
	}

	if !p.preserveUnicode {
		t = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(allowedPunct, r) {
				return r
			}
			return ' '
		}, t)
	}

	return tidyWhitespace(t)
}

func tidyWhitespace(t string) string {
	t = inlineSpace.ReplaceAllString(t, " ")
	t = aroundBreak.ReplaceAllString(t, "\n")
	t = manyNewlines.ReplaceAllString(t, "\n\n")
	return strings.TrimSpace(t)
}
