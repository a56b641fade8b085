package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
	"github.com/custodia-labs/microverse/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// Retrieval outcome labels reported to the metrics recorder.
const (
	outcomeOK             = "ok"
	outcomeInvalid        = "invalid"
	outcomeEmbeddingError = "embedding_error"
	outcomeCorpusError    = "corpus_error"
	outcomeCancelled      = "cancelled"
)

// RetrievalService embeds a query, ranks the corpus against it and
// narrows the ranking to a diversified top-k.
type RetrievalService struct {
	embedder driven.EmbeddingService
	corpus   driven.CorpusReader
	cache    *EmbeddingCache
	metrics  driven.MetricsRecorder
}

// NewRetrievalService creates a retrieval service.
// A nil cache gets a default-sized one.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	corpus driven.CorpusReader,
	cache *EmbeddingCache,
) *RetrievalService {
	if cache == nil {
		cache = NewEmbeddingCache(domain.DefaultEmbeddingCacheSize)
	}
	return &RetrievalService{
		embedder: embedder,
		corpus:   corpus,
		cache:    cache,
		metrics:  nopMetrics{},
	}
}

// SetMetrics installs a metrics recorder. Nil restores the no-op recorder.
func (s *RetrievalService) SetMetrics(m driven.MetricsRecorder) {
	if m == nil {
		m = nopMetrics{}
	}
	s.metrics = m
}

// Cache returns the query embedding cache.
func (s *RetrievalService) Cache() *EmbeddingCache {
	return s.cache
}

// Retrieve returns at most k diversified documents for query.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) (*domain.RetrievalResult, error) {
	start := time.Now()

	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		s.metrics.ObserveRetrieval(outcomeInvalid, time.Since(start))
		return nil, domain.ErrMissingQuery
	}

	k = domain.ClampTopK(k)
	logger.Debug("k: %d", k)

	vec, hit, err := s.queryVector(ctx, query)
	if err != nil {
		s.metrics.ObserveRetrieval(outcomeEmbeddingError, time.Since(start))
		logger.Warn("Query embedding failed: %v", err)
		return nil, err
	}
	s.metrics.ObserveCache(hit)
	logger.Debug("Cache hit: %t, size: %d", hit, s.cache.Len())

	if s.corpus == nil {
		s.metrics.ObserveRetrieval(outcomeCorpusError, time.Since(start))
		return nil, domain.ErrCorpusUnavailable
	}
	docs, err := s.corpus.Load(ctx)
	if err != nil && ctx.Err() != nil {
		s.metrics.ObserveRetrieval(outcomeCancelled, time.Since(start))
		return nil, ctx.Err()
	}
	if err != nil {
		s.metrics.ObserveRetrieval(outcomeCorpusError, time.Since(start))
		logger.Warn("Corpus load failed: %v", err)
		return nil, fmt.Errorf("retrieve: %w: %w", domain.ErrCorpusUnavailable, err)
	}

	ranked, stats, err := RankContext(ctx, vec, docs)
	if err != nil {
		s.metrics.ObserveRetrieval(outcomeCancelled, time.Since(start))
		return nil, err
	}
	if skipped := len(docs) - len(ranked); skipped > 0 {
		logger.Debug("Skipped %d documents without a usable embedding", skipped)
	}
	s.metrics.SetCorpusSize(stats.Count)

	results, stats := SelectTopK(ranked, stats, k)
	stats.CacheSize = s.cache.Len()
	stats.CacheHit = hit

	logger.Debug("Top similarity: %.4f, threshold: %.4f", stats.TopSimilarity, stats.ThresholdUsed)
	logger.Info("Retrieved %d of %d documents", stats.FilteredCount, stats.Count)

	s.metrics.ObserveRetrieval(outcomeOK, time.Since(start))
	return &domain.RetrievalResult{Results: results, Stats: stats}, nil
}

// queryVector returns the cached embedding for query or computes and
// caches a fresh one. Failed embeddings are never cached.
func (s *RetrievalService) queryVector(ctx context.Context, query string) ([]float64, bool, error) {
	if vec, ok := s.cache.Get(query); ok {
		return vec, true, nil
	}

	vec, err := s.embed(ctx, query)
	if err != nil {
		return nil, false, err
	}
	s.cache.Put(query, vec)
	return vec, false, nil
}

// Embed returns the embedding for text. The cache is not consulted.
func (s *RetrievalService) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embed: %w: missing text", domain.ErrInvalidInput)
	}
	return s.embed(ctx, text)
}

func (s *RetrievalService) embed(ctx context.Context, text string) ([]float64, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embed: %w: empty vector", domain.ErrEmbeddingUnavailable)
	}
	return vec, nil
}

// Count returns the number of documents in the corpus.
func (s *RetrievalService) Count(ctx context.Context) (int, error) {
	if s.corpus == nil {
		return 0, domain.ErrCorpusUnavailable
	}
	n, err := s.corpus.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count: %w: %w", domain.ErrCorpusUnavailable, err)
	}
	return n, nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveRetrieval(string, time.Duration) {}
func (nopMetrics) ObserveCache(bool)                      {}
func (nopMetrics) SetCorpusSize(int)                      {}
