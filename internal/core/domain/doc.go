// Package domain defines the core entities of the microverse retrieval engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An embedded passage with provenance metadata
//   - ScoredDocument: A Document scored against one query vector
//   - RetrievalStats: Descriptive statistics for one ranking pass
//   - ControlPatch: Visual and audio parameters derived from results
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
