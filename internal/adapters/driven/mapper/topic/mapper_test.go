package topic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

func scored(sim float64, topics ...string) domain.ScoredDocument {
	return domain.ScoredDocument{
		Document:   domain.Document{Work: "Work", Author: "Author", Topic: topics},
		Similarity: sim,
	}
}

func TestMapper_Empty(t *testing.T) {
	patch := New().Map(nil)

	assert.True(t, patch.IsNeutral())
	assert.Empty(t, patch.Meta.Sources)

	raw, err := json.Marshal(patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"visual":{"ops":{}},"audio":{},"meta":{"sources":[],"stats":null}}`, string(raw))
}

func TestMapper_VisionAndColour(t *testing.T) {
	patch := New().Map([]domain.ScoredDocument{
		scored(0.9, "vision", "colour"),
		scored(0.8, "Vision"),
	})

	ops := patch.Visual.Ops
	assert.InDelta(t, 0.8, ops["contrast"].Strength, 1e-9)
	assert.InDelta(t, 0.5, ops["kaleid"].Strength, 1e-9)
	assert.InDelta(t, 0.52, ops["hue"].Strength, 1e-9)
	assert.InDelta(t, 0.7, ops["saturate"].Strength, 1e-9)
	assert.True(t, ops["contrast"].On)
	assert.NotContains(t, ops, "scrollX")

	require.NotNil(t, patch.Visual.TargetColor)
	assert.Equal(t, WarmTarget, *patch.Visual.TargetColor)

	// v=2, c=1, total=3
	assert.Equal(t, 100, patch.Audio.Tempo)
	assert.InDelta(t, 0.35, patch.Audio.Filter, 1e-9)
	assert.InDelta(t, 0.25+0.2/3, patch.Audio.Reverb, 1e-9)
	assert.Equal(t, PatternPad, patch.Audio.Pattern)

	require.Len(t, patch.Meta.Sources, 2)
	assert.Equal(t, 0.9, patch.Meta.Sources[0].Similarity)
	assert.Equal(t, "Work", patch.Meta.Sources[0].Work)
}

func TestMapper_AudioOnly(t *testing.T) {
	patch := New().Map([]domain.ScoredDocument{scored(0.7, "audio")})

	assert.Equal(t, domain.OpConfig{On: true, Strength: 0.22}, patch.Visual.Ops["scrollX"])
	assert.Len(t, patch.Visual.Ops, 1)
	assert.Equal(t, 120, patch.Audio.Tempo)
	assert.Equal(t, PatternRhythmic, patch.Audio.Pattern)
	assert.Nil(t, patch.Visual.TargetColor)
}

func TestMapper_NoKnownTopics(t *testing.T) {
	patch := New().Map([]domain.ScoredDocument{scored(0.5, "geometry")})

	assert.Empty(t, patch.Visual.Ops)
	assert.Equal(t, 100, patch.Audio.Tempo)
	assert.InDelta(t, 0.35, patch.Audio.Filter, 1e-9)
	assert.InDelta(t, 0.25, patch.Audio.Reverb, 1e-9)
	assert.Equal(t, PatternPad, patch.Audio.Pattern)
	assert.Len(t, patch.Meta.Sources, 1)
}

func TestMapper_StrengthsClamped(t *testing.T) {
	docs := make([]domain.ScoredDocument, 6)
	for i := range docs {
		docs[i] = scored(0.9, "vision", "optics", "psychology", "psychophysics")
	}
	ops := New().Map(docs).Visual.Ops

	assert.Equal(t, 1.0, ops["contrast"].Strength)
	assert.InDelta(t, 0.8, ops["pixelate"].Strength, 1e-9)
	assert.Equal(t, 1.0, ops["modulate"].Strength)
	assert.Equal(t, 0.18, ops["rotate"].Strength)
	assert.Equal(t, 0.18, ops["modulateHue"].Strength)
}

func TestMapper_SourcesDoNotAlias(t *testing.T) {
	docs := []domain.ScoredDocument{scored(0.5, "vision")}
	patch := New().Map(docs)
	patch.Meta.Sources[0].Topic[0] = "changed"
	assert.Equal(t, "vision", docs[0].Topic[0])
}
