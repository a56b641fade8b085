package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must be deterministic for identical text under a fixed
// model and return L2-normalised vectors of Dimensions() length.
//
// Implementations include:
//   - Hash (feature hashing, offline)
//   - Ollama (all-minilm)
//   - OpenAI (text-embedding-3-small truncated to 384 dimensions)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
