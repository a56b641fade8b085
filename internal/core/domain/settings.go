package domain

const unknownDescription = "Unknown"

// EmbeddingProvider identifies the service that turns text into vectors.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderHash is the deterministic feature-hashing fallback.
	// It needs no network and is the default.
	EmbeddingProviderHash EmbeddingProvider = "hash"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderHash, EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderHash:
		return "Hash (offline fallback)"
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// CorpusBackend identifies where the corpus is persisted.
type CorpusBackend string

// Available corpus backends.
const (
	CorpusBackendSQLite   CorpusBackend = "sqlite"
	CorpusBackendMemory   CorpusBackend = "memory"
	CorpusBackendPostgres CorpusBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b CorpusBackend) IsValid() bool {
	switch b {
	case CorpusBackendSQLite, CorpusBackendMemory, CorpusBackendPostgres:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CorpusBackend) String() string {
	return string(b)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RateLimit is the maximum number of embedding requests per second.
	// Zero disables throttling.
	RateLimit float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// CorpusSettings holds corpus store configuration.
type CorpusSettings struct {
	// Backend selects the store implementation.
	Backend CorpusBackend

	// Path is the sqlite database directory.
	Path string

	// DSN is the Postgres connection string.
	DSN string
}

// RetrievalSettings holds ranking defaults.
type RetrievalSettings struct {
	// TopK is the default result count for search.
	TopK int

	// CacheSize bounds the query embedding cache.
	CacheSize int
}

// IngestSettings holds ingestion configuration.
type IngestSettings struct {
	// ContentDir is the directory scanned for .md, .mdx and .txt files.
	ContentDir string

	// Processors is the ordered post-processor pipeline.
	Processors []string
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	Corpus    CorpusSettings
	Retrieval RetrievalSettings
	Ingest    IngestSettings
	Server    ServerSettings
}

// Setting defaults.
const (
	DefaultEmbeddingCacheSize = 40
	DefaultServerAddr         = "127.0.0.1:8080"
	DefaultContentDir         = "content"
)

// DefaultAppSettings returns settings that work offline out of the box.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: EmbeddingProviderHash,
			Model:    DefaultEmbeddingModels()[EmbeddingProviderHash],
		},
		Corpus: CorpusSettings{
			Backend: CorpusBackendSQLite,
		},
		Retrieval: RetrievalSettings{
			TopK:      DefaultTopK,
			CacheSize: DefaultEmbeddingCacheSize,
		},
		Ingest: IngestSettings{
			ContentDir: DefaultContentDir,
			Processors: []string{"chunker"},
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
	}
}

// AllEmbeddingProviders returns every supported provider.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderHash,
		EmbeddingProviderOllama,
		EmbeddingProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
// All of them produce EmbeddingDimensions-length vectors.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderHash:   "hash-384",
		EmbeddingProviderOllama: "all-minilm",
		EmbeddingProviderOpenAI: "text-embedding-3-small",
	}
}
