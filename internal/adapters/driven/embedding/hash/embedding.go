// Package hash provides an offline embedding service based on feature
// hashing. It needs no model or network, so it is the default provider and
// the fallback used by tests.
package hash

import (
	"context"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/microverse/internal/adapters/driven/embedding"
	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// ModelName is reported by every hash embedder.
const ModelName = "hash-384"

// EmbeddingService maps text to a signed bag of hashed unigrams and
// bigrams, L2-normalised. Texts sharing vocabulary land close together.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hash embedder. Non-positive dimensions
// select domain.EmbeddingDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = domain.EmbeddingDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed returns the hashed feature vector for text. Text without any
// letters or digits yields the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, s.dimensions)
	tokens := tokenize(text)
	for i, tok := range tokens {
		s.add(vec, tok, 1)
		if i > 0 {
			s.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}
	return embedding.Normalize(vec), nil
}

func (s *EmbeddingService) add(vec []float64, feature string, weight float64) {
	h := xxhash.Sum64String(feature)
	idx := h % uint64(s.dimensions)
	if h>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// EmbedBatch embeds each text in turn.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int { return s.dimensions }

// ModelName returns "hash-384".
func (s *EmbeddingService) ModelName() string { return ModelName }

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *EmbeddingService) Close() error { return nil }
