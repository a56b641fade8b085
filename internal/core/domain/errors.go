package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingQuery indicates a retrieval was requested without query text.
	// It is raised before the ranking engine is reached.
	ErrMissingQuery = errors.New("missing query")

	// ErrEmptyContent indicates a source had no usable text.
	ErrEmptyContent = errors.New("empty content")

	// ErrEmbeddingUnavailable indicates the embedding provider failed or is
	// not configured. Retrieval cannot proceed without a query vector.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCorpusUnavailable indicates the corpus store is not configured.
	ErrCorpusUnavailable = errors.New("corpus store unavailable")

	// Configuration Errors.

	// ErrConfigNotFound indicates a configuration key has no value.
	ErrConfigNotFound = errors.New("config key not found")

	// ErrInvalidProvider indicates an unknown embedding provider name.
	ErrInvalidProvider = errors.New("invalid embedding provider")

	// ErrInvalidBackend indicates an unknown corpus backend name.
	ErrInvalidBackend = errors.New("invalid corpus backend")
)
