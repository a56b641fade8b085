// Package filesystem reads content files from a local directory and
// watches it for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.ContentLoader = (*Loader)(nil)

// mimeTypes maps the supported extensions to normaliser MIME types.
var mimeTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".mdx":      "text/mdx",
	".txt":      "text/plain",
}

// Loader reads the top level of a content directory.
type Loader struct{}

// NewLoader creates a filesystem content loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load returns every supported, non-hidden file directly inside dir,
// sorted by path. Subdirectories are not descended into.
func (l *Loader) Load(ctx context.Context, dir string) ([]domain.RawSource, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("content directory %s does not exist", dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var sources []domain.RawSource
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || isHidden(entry.Name()) || !IsSupported(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		sources = append(sources, domain.RawSource{
			Path:     path,
			MIMEType: detectMIMEType(path),
			Content:  content,
		})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources, nil
}

// IsSupported reports whether path has a loadable extension.
func IsSupported(path string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

func detectMIMEType(path string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "text/plain"
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
