package domain

// OpConfig toggles one visual operation.
type OpConfig struct {
	On       bool    `json:"on"`
	Strength float64 `json:"strength"`
}

// RGB is a colour with channels in [0, 1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// VisualControl is the visual half of a ControlPatch.
type VisualControl struct {
	Ops         map[string]OpConfig `json:"ops"`
	TargetColor *RGB                `json:"targetColor,omitempty"`
}

// AudioControl is the audio half of a ControlPatch.
// The zero value is the neutral patch and encodes as {}.
type AudioControl struct {
	Tempo   int     `json:"tempo,omitempty"`
	Filter  float64 `json:"filter,omitempty"`
	Reverb  float64 `json:"reverb,omitempty"`
	Pattern string  `json:"pattern,omitempty"`
}

// SourceRef describes one document that contributed to a patch.
type SourceRef struct {
	Work       string   `json:"work,omitempty"`
	Author     string   `json:"author,omitempty"`
	Topic      []string `json:"topic,omitempty"`
	Similarity float64  `json:"similarity"`
}

// PatchMeta carries provenance for a ControlPatch.
type PatchMeta struct {
	Sources []SourceRef     `json:"sources"`
	Stats   *RetrievalStats `json:"stats"`
}

// ControlPatch is the parameter patch consumed by the rendering and
// audio layers.
type ControlPatch struct {
	Visual VisualControl `json:"visual"`
	Audio  AudioControl  `json:"audio"`
	Meta   PatchMeta     `json:"meta"`
}

// NeutralPatch returns the patch produced for an empty result set.
func NeutralPatch() ControlPatch {
	return ControlPatch{
		Visual: VisualControl{Ops: map[string]OpConfig{}},
		Meta:   PatchMeta{Sources: []SourceRef{}},
	}
}

// IsNeutral reports whether the patch changes nothing.
func (p ControlPatch) IsNeutral() bool {
	return len(p.Visual.Ops) == 0 && p.Visual.TargetColor == nil && p.Audio == (AudioControl{})
}
