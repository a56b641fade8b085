package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by text; unknown texts get fallback.
type mockEmbeddingService struct {
	mu       sync.Mutex
	vectors  map[string][]float64
	fallback []float64
	err      error
	calls    int
	batches  [][]string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	m.batches = append(m.batches, texts)
	m.mu.Unlock()

	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return 3 }
func (m *mockEmbeddingService) ModelName() string            { return "mock" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.err }
func (m *mockEmbeddingService) Close() error                 { return nil }

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockCorpus implements driven.CorpusStore for testing.
type mockCorpus struct {
	docs      []domain.Document
	loadErr   error
	insertErr error
	inserted  []domain.Document
	replaced  int
}

func (m *mockCorpus) Load(_ context.Context) ([]domain.Document, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.docs, nil
}

func (m *mockCorpus) Count(_ context.Context) (int, error) {
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	return len(m.docs), nil
}

func (m *mockCorpus) Insert(_ context.Context, docs []domain.Document) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, docs...)
	return nil
}

func (m *mockCorpus) Replace(_ context.Context, docs []domain.Document) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append([]domain.Document(nil), docs...)
	m.replaced++
	return nil
}

func (m *mockCorpus) Close() error { return nil }

// mockMapper implements driven.ControlMapper for testing.
type mockMapper struct {
	got []domain.ScoredDocument
}

func (m *mockMapper) Map(results []domain.ScoredDocument) domain.ControlPatch {
	m.got = results
	patch := domain.NeutralPatch()
	patch.Visual.Ops["contrast"] = domain.OpConfig{On: true, Strength: 0.7}
	for _, r := range results {
		patch.Meta.Sources = append(patch.Meta.Sources, domain.SourceRef{
			Work: r.Work, Author: r.Author, Similarity: r.Similarity,
		})
	}
	return patch
}

// mockMetrics implements driven.MetricsRecorder for testing.
type mockMetrics struct {
	outcomes []string
	hits     []bool
	corpus   int
}

func (m *mockMetrics) ObserveRetrieval(outcome string, _ time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}
func (m *mockMetrics) ObserveCache(hit bool) { m.hits = append(m.hits, hit) }
func (m *mockMetrics) SetCorpusSize(n int)   { m.corpus = n }

// doc builds a corpus document for ranking tests.
func doc(id, author, work string, emb ...float64) domain.Document {
	return domain.Document{ID: id, Author: author, Work: work, Content: id, Embedding: emb}
}
