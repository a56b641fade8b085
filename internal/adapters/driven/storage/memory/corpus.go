package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore holds documents in insertion order.
type CorpusStore struct {
	mu    sync.RWMutex
	docs  []domain.Document
	index map[string]int
}

// NewCorpusStore creates a corpus store preloaded with docs.
func NewCorpusStore(docs ...domain.Document) *CorpusStore {
	s := &CorpusStore{index: make(map[string]int)}
	_ = s.Insert(context.Background(), docs)
	return s
}

// Load returns a snapshot of the corpus in insertion order.
func (s *CorpusStore) Load(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.docs), nil
}

// Count returns the number of documents.
func (s *CorpusStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Insert appends docs. A document whose ID is already present replaces
// the stored one in place; documents without an ID are always appended.
func (s *CorpusStore) Insert(ctx context.Context, docs []domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(docs)
	return nil
}

// Replace discards the stored documents and inserts docs.
func (s *CorpusStore) Replace(ctx context.Context, docs []domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.index = make(map[string]int, len(docs))
	s.insertLocked(docs)
	return nil
}

func (s *CorpusStore) insertLocked(docs []domain.Document) {
	for _, d := range docs {
		if i, ok := s.index[d.ID]; ok && d.ID != "" {
			s.docs[i] = d
			continue
		}
		if d.ID != "" {
			s.index[d.ID] = len(s.docs)
		}
		s.docs = append(s.docs, d)
	}
}

// Close is a no-op.
func (s *CorpusStore) Close() error { return nil }
