package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "plain")
	writeFile(t, dir, "a.md", "# heading")
	writeFile(t, dir, "c.mdx", "mdx")
	writeFile(t, dir, "image.png", "nope")
	writeFile(t, dir, ".draft.md", "hidden")
	writeFile(t, dir, "nested/deep.md", "not scanned")

	sources, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, filepath.Join(dir, "a.md"), sources[0].Path)
	assert.Equal(t, "text/markdown", sources[0].MIMEType)
	assert.Equal(t, "# heading", string(sources[0].Content))
	assert.Equal(t, "text/plain", sources[1].MIMEType)
	assert.Equal(t, "text/mdx", sources[2].MIMEType)
}

func TestLoader_MissingDir(t *testing.T) {
	sources, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Nil(t, sources)
}

func TestLoader_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader().Load(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename     string
		expectedMIME string
	}{
		{"doc.md", "text/markdown"},
		{"doc.markdown", "text/markdown"},
		{"FILE.MD", "text/markdown"},
		{"page.mdx", "text/mdx"},
		{"notes.txt", "text/plain"},
		{"noext", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expectedMIME, detectMIMEType(tt.filename))
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"dir/.git/config", true},
		{"file.txt", false},
		{"path/to/file.txt", false},
		{".", false},
		{"..", false},
		{"path/../file", false},
		{"", false},
		{"file.hidden", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}
