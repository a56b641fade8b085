package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocument_Fields tests Document structure fields
func TestDocument_Fields(t *testing.T) {
	now := time.Now()
	year := -380

	doc := Document{
		ID:        "doc-123",
		Work:      "Republic",
		Author:    "Plato",
		Content:   "the cave",
		Embedding: []float64{0.1, 0.2},
		Year:      &year,
		Era:       "ancient",
		Topic:     []string{"vision", "truth"},
		CreatedAt: now,
	}

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, "Republic", doc.Work)
	assert.Equal(t, "Plato", doc.Author)
	require.NotNil(t, doc.Year)
	assert.Equal(t, -380, *doc.Year)
	assert.Equal(t, []string{"vision", "truth"}, doc.Topic)
	assert.Equal(t, now, doc.CreatedAt)
}

func TestDocument_HasEmbedding(t *testing.T) {
	assert.True(t, (&Document{Embedding: []float64{1}}).HasEmbedding())
	assert.False(t, (&Document{}).HasEmbedding())
	assert.False(t, (&Document{Embedding: []float64{}}).HasEmbedding())
}

// TestDocument_JSONOmitsEmbedding tests that vectors never reach API payloads
func TestDocument_JSONOmitsEmbedding(t *testing.T) {
	doc := Document{ID: "a", Work: "w", Author: "x", Content: "c", Embedding: []float64{1, 2, 3}}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "embedding")
	assert.NotContains(t, m, "Embedding")
	assert.NotContains(t, m, "year")
	assert.Equal(t, "a", m["id"])
}

func TestScoredDocument_JSONFlattensDocument(t *testing.T) {
	sd := ScoredDocument{Document: Document{ID: "a", Work: "w"}, Similarity: 0.5}

	data, err := json.Marshal(sd)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"a"`)
	assert.Contains(t, string(data), `"similarity":0.5`)
}
