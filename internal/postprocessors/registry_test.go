package postprocessors

import (
	"context"
	"testing"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// registryMockProcessor is a simple mock for testing registry functionality.
type registryMockProcessor struct {
	name string
}

func (m *registryMockProcessor) Name() string { return m.name }
func (m *registryMockProcessor) Process(_ context.Context, _ *domain.SourceText, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return chunks, nil
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if len(r.builders) != 0 {
		t.Errorf("expected empty builders, got %d", len(r.builders))
	}
}

func TestRegistry_Build_Success(t *testing.T) {
	r := NewRegistry()
	r.Register("test", func(cfg map[string]any) (driven.PostProcessor, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &registryMockProcessor{name: name}, nil
	})

	proc, err := r.Build("test", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if proc.Name() != "custom" {
		t.Errorf("expected name 'custom', got '%s'", proc.Name())
	}
}

func TestRegistry_Build_Unknown(t *testing.T) {
	if _, err := NewRegistry().Build("nonexistent", nil); err == nil {
		t.Error("expected error for unknown processor")
	}
}

func TestRegistry_BuildPipeline_Unknown(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if _, err := r.BuildPipeline([]string{"chunker", "stemmer"}, nil); err == nil {
		t.Error("expected error for unknown processor in pipeline")
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	names := r.Names()
	if len(names) != 2 || names[0] != "chunker" || names[1] != "cleaner" {
		t.Errorf("unexpected default processors: %v", names)
	}
}

func TestBuildChunker_WithConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	p, err := r.BuildPipeline([]string{"chunker"}, map[string]map[string]any{
		"chunker": {"target_words": int64(2), "overlap_words": float64(0)},
	})
	if err != nil {
		t.Fatalf("BuildPipeline failed: %v", err)
	}

	chunks, err := p.Process(context.Background(), &domain.SourceText{Body: "a b c d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestGetIntFromConfig(t *testing.T) {
	cfg := map[string]any{"a": 1, "b": int64(2), "c": 3.0, "d": "4"}

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3, "d": 0, "missing": 0} {
		if got := getIntFromConfig(cfg, key); got != want {
			t.Errorf("%s: expected %d, got %d", key, want, got)
		}
	}
}
