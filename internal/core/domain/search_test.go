package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampTopK(t *testing.T) {
	tests := []struct {
		k    int
		want int
	}{
		{0, DefaultTopK},
		{-3, 1},
		{-1, 1},
		{1, 1},
		{7, 7},
		{50, 50},
		{51, 50},
		{1000, 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampTopK(tt.k), "k=%d", tt.k)
	}
}

func TestSourceMeta_WithDefaults(t *testing.T) {
	m := SourceMeta{OverlapWords: -4}.WithDefaults("optics")

	assert.Equal(t, "optics", m.Work)
	assert.Equal(t, UnknownAuthor, m.Author)
	assert.Equal(t, DefaultTargetWords, m.TargetWords)
	assert.Equal(t, 0, m.OverlapWords)

	kept := SourceMeta{Work: "Optics", Author: "Euclid", TargetWords: 100, OverlapWords: 10}.WithDefaults("x")
	assert.Equal(t, "Optics", kept.Work)
	assert.Equal(t, "Euclid", kept.Author)
	assert.Equal(t, 100, kept.TargetWords)
	assert.Equal(t, 10, kept.OverlapWords)
}
