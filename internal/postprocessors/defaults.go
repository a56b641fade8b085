package postprocessors

import (
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/postprocessors/chunker"
	"github.com/custodia-labs/microverse/internal/postprocessors/cleaner"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("cleaner", buildCleaner)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - target_words (int): Fallback words per chunk (default: 400)
//   - overlap_words (int): Fallback window overlap (default: 50)
//
// Frontmatter values on the source take precedence.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "target_words"); size > 0 {
			opts = append(opts, chunker.WithTargetWords(size))
		}
		if _, ok := cfg["overlap_words"]; ok {
			opts = append(opts, chunker.WithOverlapWords(getIntFromConfig(cfg, "overlap_words")))
		}
	}

	return chunker.New(opts...), nil
}

// buildCleaner creates a cleaner processor from generic config.
// Supported config keys:
//   - preserve_unicode (bool): Keep symbols outside the allowed punctuation set
func buildCleaner(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []cleaner.Option
	if preserve, ok := cfg["preserve_unicode"].(bool); ok && preserve {
		opts = append(opts, cleaner.WithPreserveUnicode())
	}
	return cleaner.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
