// Package normalisers provides implementations of the Normaliser interface
// for content files. Each normaliser knows how to split frontmatter from
// body text for a specific MIME type.
//
// Normalisers are registered with the Registry at startup.
package normalisers
