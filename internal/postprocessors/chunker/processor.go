// Package chunker provides a paragraph-aware word chunking processor.
package chunker

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultTargetWords is the default number of words per chunk.
const DefaultTargetWords = domain.DefaultTargetWords

// DefaultOverlapWords is the default overlap when windowing long paragraphs.
const DefaultOverlapWords = domain.DefaultOverlapWords

var paragraphBreak = regexp.MustCompile(`\n\s*\n+`)

// Processor groups paragraphs into chunks of roughly TargetWords words.
// Paragraphs longer than the target are split into overlapping windows.
type Processor struct {
	targetWords  int
	overlapWords int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithTargetWords sets the fallback chunk size in words.
func WithTargetWords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.targetWords = n
		}
	}
}

// WithOverlapWords sets the fallback window overlap in words.
func WithOverlapWords(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlapWords = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		targetWords:  DefaultTargetWords,
		overlapWords: DefaultOverlapWords,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the source body into chunks. Input chunks are ignored.
// Sizes come from the source frontmatter when set, else from the options.
func (p *Processor) Process(_ context.Context, src *domain.SourceText, _ []domain.Chunk) ([]domain.Chunk, error) {
	if strings.TrimSpace(src.Body) == "" {
		return nil, nil
	}

	target, overlap := p.targetWords, p.overlapWords
	if src.Meta.TargetWords > 0 {
		target, overlap = src.Meta.TargetWords, src.Meta.OverlapWords
	}

	texts := Split(src.Body, target, overlap)
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{Position: i, Content: text}
	}
	return chunks, nil
}

// Split breaks text into paragraph-aligned chunks.
//
// Paragraphs are separated by blank lines and have their whitespace
// collapsed. A paragraph with more than target words is flushed on its own
// as windows of target words advancing by max(1, target-overlap). Shorter
// paragraphs accumulate, joined by blank lines, until adding the next one
// would exceed target. At least one chunk is returned.
func Split(text string, target, overlap int) []string {
	if target <= 0 {
		target = DefaultTargetWords
	}

	var (
		chunks []string
		buf    []string
		count  int
	)
	flush := func() {
		if len(buf) > 0 {
			chunks = append(chunks, strings.Join(buf, "\n\n"))
			buf = nil
			count = 0
		}
	}

	for _, para := range paragraphBreak.Split(text, -1) {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}

		if len(words) > target {
			flush()
			step := max(1, target-overlap)
			for i := 0; i < len(words); i += step {
				end := min(i+target, len(words))
				chunks = append(chunks, strings.Join(words[i:end], " "))
				if i+target >= len(words) {
					break
				}
			}
			continue
		}

		if count+len(words) > target && len(buf) > 0 {
			flush()
		}
		buf = append(buf, strings.Join(words, " "))
		count += len(words)
	}
	flush()

	if len(chunks) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return chunks
}
