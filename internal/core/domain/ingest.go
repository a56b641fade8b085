package domain

// Chunking defaults applied when frontmatter omits them.
const (
	DefaultTargetWords  = 400
	DefaultOverlapWords = 50
	UnknownAuthor       = "unknown"
)

// SourceMeta is the provenance attached to every chunk of a source file.
// Normalisers resolve the chunking fields, so zero OverlapWords means no
// overlap rather than "unset".
type SourceMeta struct {
	Work         string
	Author       string
	Year         *int
	Era          string
	Topic        []string
	TargetWords  int
	OverlapWords int
}

// WithDefaults fills empty fields. fallbackWork is used when no work is set.
func (m SourceMeta) WithDefaults(fallbackWork string) SourceMeta {
	if m.Work == "" {
		m.Work = fallbackWork
	}
	if m.Author == "" {
		m.Author = UnknownAuthor
	}
	if m.TargetWords <= 0 {
		m.TargetWords = DefaultTargetWords
	}
	if m.OverlapWords < 0 {
		m.OverlapWords = 0
	}
	return m
}

// IngestOptions controls an ingestion run.
type IngestOptions struct {
	// ContentDir overrides the configured content directory.
	ContentDir string

	// DryRun computes embeddings but writes nothing.
	DryRun bool
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	Files     int  `json:"files"`
	Documents int  `json:"documents"`
	Inserted  int  `json:"inserted"`
	Seeded    bool `json:"seeded"`
	DryRun    bool `json:"dry_run"`
}

// PipelineConfig describes the post-processor chain used at ingestion.
type PipelineConfig struct {
	// Processors lists processor names in execution order.
	Processors []string

	// ProcessorConfigs holds per-processor settings keyed by name.
	ProcessorConfigs map[string]map[string]any
}

// DefaultPipelineConfig chunks with the default window and no cleaning.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
	}
}
