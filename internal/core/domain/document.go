package domain

import "time"

// Document is a semantic unit of text with a precomputed embedding.
// Documents are created at ingestion and never mutated afterwards.
type Document struct {
	// ID is the opaque unique identifier.
	ID string `json:"id"`

	// Work is the title of the source work. May be empty.
	Work string `json:"work"`

	// Author is the author of the source work. May be empty or "unknown".
	Author string `json:"author"`

	// Content is the passage text, usually a few hundred words.
	Content string `json:"content"`

	// Embedding is the passage vector. Nil means the stored value could
	// not be parsed and the document is excluded from ranking.
	Embedding []float64 `json:"-"`

	// Year is the publication year when known. Negative for BCE.
	Year *int `json:"year,omitempty"`

	// Era is a free-form period label such as "ancient".
	Era string `json:"era,omitempty"`

	// Topic lists subject tags used by the control mapper.
	Topic []string `json:"topic,omitempty"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// HasEmbedding reports whether the document can be ranked.
func (d *Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// Chunk is a slice of source text produced during ingestion.
type Chunk struct {
	// Position is the zero-based order of the chunk within its source.
	Position int

	// Content is the chunk text.
	Content string
}

// RawSource is an unparsed content file read from the content directory.
type RawSource struct {
	// Path is the file path the content was read from.
	Path string

	// MIMEType is derived from the file extension.
	MIMEType string

	// Content is the raw file bytes.
	Content []byte
}

// SourceText is a normalised source ready for chunking.
type SourceText struct {
	// Path is the file the text was read from. Empty for seed documents.
	Path string

	// Meta holds the provenance read from frontmatter.
	Meta SourceMeta

	// Body is the text with frontmatter and markup removed.
	Body string
}
