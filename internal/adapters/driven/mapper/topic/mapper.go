// Package topic maps ranked documents to a control patch by counting
// their subject tags.
package topic

import (
	"math"
	"slices"
	"strings"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// Ensure Mapper implements the interface.
var _ driven.ControlMapper = (*Mapper)(nil)

// Patterns selected by the audio mapping.
const (
	PatternRhythmic = "rhythmic"
	PatternPad      = "pad"
)

// WarmTarget is the colour hint emitted when colour topics are present.
var WarmTarget = domain.RGB{R: 0.65, G: 0.5, B: 0.45}

// signals counts, per topic family, the documents tagged with it.
type signals struct {
	vision, audio, colour, psycho, optics int
}

func (s signals) total() float64 {
	return math.Max(1, float64(s.vision+s.audio+s.colour+s.psycho+s.optics))
}

// Mapper is the default topic-driven ControlMapper.
type Mapper struct{}

// New creates a topic mapper.
func New() *Mapper {
	return &Mapper{}
}

// Map turns results into a patch. An empty input yields the neutral patch.
func (m *Mapper) Map(results []domain.ScoredDocument) domain.ControlPatch {
	if len(results) == 0 {
		return domain.NeutralPatch()
	}

	var s signals
	sources := make([]domain.SourceRef, 0, len(results))
	for _, r := range results {
		tags := lowerAll(r.Topic)
		s.vision += has(tags, "vision")
		s.audio += has(tags, "audio")
		s.colour += has(tags, "colour") + has(tags, "color")
		s.psycho += has(tags, "psychophysics") + has(tags, "psychology")
		s.optics += has(tags, "optics")

		sources = append(sources, domain.SourceRef{
			Work:       r.Work,
			Author:     r.Author,
			Topic:      slices.Clone(r.Topic),
			Similarity: r.Similarity,
		})
	}

	patch := domain.ControlPatch{
		Visual: domain.VisualControl{Ops: visualOps(s)},
		Audio:  audioControl(s),
		Meta:   domain.PatchMeta{Sources: sources},
	}
	if s.colour > 0 {
		target := WarmTarget
		patch.Visual.TargetColor = &target
	}
	return patch
}

func visualOps(s signals) map[string]domain.OpConfig {
	ops := map[string]domain.OpConfig{}
	if s.vision > 0 {
		ops["contrast"] = on(0.6 + 0.1*float64(s.vision))
		ops["kaleid"] = on(0.3 + 0.1*float64(s.vision))
	}
	if s.colour > 0 {
		ops["hue"] = on(0.4 + 0.12*float64(s.colour))
		ops["saturate"] = on(0.7)
	}
	if s.optics > 0 {
		ops["pixelate"] = on(0.2 + 0.1*float64(s.optics))
		ops["rotate"] = on(0.18)
	}
	if s.psycho > 0 {
		ops["modulate"] = on(0.2 + 0.1*float64(s.psycho))
		ops["modulateHue"] = on(0.18)
	}
	if s.audio > 0 {
		// Streaming motion for sound-led results.
		ops["scrollX"] = on(0.22)
	}
	return ops
}

func audioControl(s signals) domain.AudioControl {
	total := s.total()
	pattern := PatternPad
	if s.audio > 0 {
		pattern = PatternRhythmic
	}
	return domain.AudioControl{
		Tempo:   100 + int(math.Round(20*float64(s.audio)/total)),
		Filter:  clamp01(0.35 + 0.1*float64(s.psycho)/total),
		Reverb:  clamp01(0.25 + 0.1*float64(s.vision)/total),
		Pattern: pattern,
	}
}

func on(strength float64) domain.OpConfig {
	return domain.OpConfig{On: true, Strength: clamp01(strength)}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func lowerAll(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return out
}

func has(tags []string, key string) int {
	if slices.Contains(tags, key) {
		return 1
	}
	return 0
}
