package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"text/plain"}, New().SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_KeepsTextVerbatim(t *testing.T) {
	raw := &domain.RawSource{
		Path:     "/content/notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("First *paragraph*.\n\nSecond paragraph.\n"),
	}

	src, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "First *paragraph*.\n\nSecond paragraph.", src.Body)
	assert.Equal(t, "notes", src.Meta.Work)
}

func TestNormalise_WithFrontmatter(t *testing.T) {
	raw := &domain.RawSource{
		Path:     "/content/tone.txt",
		MIMEType: "text/plain",
		Content:  []byte("---\nauthor: Hermann von Helmholtz\ntopic:\n  - audio\n---\nTones are composed of partials."),
	}

	src, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Hermann von Helmholtz", src.Meta.Author)
	assert.Equal(t, []string{"audio"}, src.Meta.Topic)
	assert.Equal(t, "Tones are composed of partials.", src.Body)
}

func TestNormalise_Errors(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New().Normalise(context.Background(), &domain.RawSource{Path: "x.txt", Content: []byte("  \n")})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}
