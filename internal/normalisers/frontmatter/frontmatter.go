// Package frontmatter splits YAML frontmatter from content files and
// resolves it into source provenance.
package frontmatter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

const delimiter = "---"

// Split separates a leading "---" delimited YAML block from the body.
// Content without frontmatter is returned unchanged with a nil header.
func Split(content string) (header []byte, body string) {
	content = strings.TrimPrefix(content, "\ufeff")
	normalised := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalised, delimiter+"\n") {
		return nil, content
	}

	rest := normalised[len(delimiter)+1:]
	if strings.HasPrefix(rest, delimiter+"\n") || rest == delimiter {
		return []byte{}, strings.TrimPrefix(strings.TrimPrefix(rest, delimiter), "\n")
	}

	end := strings.Index(rest, "\n"+delimiter)
	if end < 0 {
		return nil, content
	}
	after := rest[end+1+len(delimiter):]
	if after != "" && after[0] != '\n' {
		return nil, content
	}
	return []byte(rest[:end]), strings.TrimPrefix(after, "\n")
}

// Parse splits content and resolves its frontmatter into SourceMeta.
// Missing fields fall back to the file stem of path, the unknown author
// and the default chunking sizes. Fields of the wrong type are ignored.
func Parse(content, path string) (domain.SourceMeta, string, error) {
	header, body := Split(content)

	fields := map[string]any{}
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fields); err != nil {
			return domain.SourceMeta{}, "", fmt.Errorf("frontmatter %s: %w", path, err)
		}
	}

	meta := domain.SourceMeta{
		Work:         stringField(fields, "work"),
		Author:       stringField(fields, "author"),
		Era:          stringField(fields, "era"),
		Topic:        stringList(fields, "topic"),
		TargetWords:  domain.DefaultTargetWords,
		OverlapWords: domain.DefaultOverlapWords,
	}
	if year, ok := intField(fields, "year"); ok {
		meta.Year = &year
	}
	if target, ok := intField(fields, "targetWords"); ok {
		meta.TargetWords = target
	}
	if overlap, ok := intField(fields, "overlapWords"); ok {
		meta.OverlapWords = overlap
	}

	return meta.WithDefaults(stem(path)), strings.TrimSpace(body), nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}

func stringList(fields map[string]any, key string) []string {
	items, ok := fields[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intField(fields map[string]any, key string) (int, bool) {
	switch v := fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
