package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedRateLimit = "embedding.rate_limit"
	keyCorpusBackend  = "corpus.backend"
	keyCorpusPath     = "corpus.path"
	keyCorpusDSN      = "corpus.dsn"
	keyTopK           = "retrieval.top_k"
	keyCacheSize      = "retrieval.cache_size"
	keyContentDir     = "ingest.content_dir"
	keyProcessors     = "ingest.processors"
	keyServerAddr     = "server.addr"
)

// Environment variables consulted when the config file leaves a secret unset.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvDatabaseURL  = "MICROVERSE_DATABASE_URL"
)

// defaultOllamaURL is used when ollama is selected without a base URL.
const defaultOllamaURL = "http://localhost:11434"

// processorConfigKeys are the per-processor keys read from ingest.<name>.<key>.
var processorConfigKeys = []string{"target_words", "overlap_words", "preserve_unicode"}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// Secrets missing from the config file are read from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:  s.getProvider(defaults.Embedding.Provider),
			BaseURL:   s.configStore.GetString(keyEmbedBaseURL),
			APIKey:    s.getString(keyEmbedAPIKey, s.getenv(EnvOpenAIAPIKey)),
			RateLimit: s.getFloat(keyEmbedRateLimit),
		},
		Corpus: domain.CorpusSettings{
			Backend: s.getBackend(defaults.Corpus.Backend),
			Path:    s.configStore.GetString(keyCorpusPath),
			DSN:     s.getString(keyCorpusDSN, s.getenv(EnvDatabaseURL)),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:      s.getInt(keyTopK, defaults.Retrieval.TopK),
			CacheSize: s.getInt(keyCacheSize, defaults.Retrieval.CacheSize),
		},
		Ingest: domain.IngestSettings{
			ContentDir: s.getString(keyContentDir, defaults.Ingest.ContentDir),
			Processors: defaults.Ingest.Processors,
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	// The model default follows the provider.
	model := domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	settings.Embedding.Model = s.getString(keyEmbedModel, model)

	if processors := s.configStore.GetStringSlice(keyProcessors); len(processors) > 0 {
		settings.Ingest.Processors = processors
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.RateLimit > 0 {
		if err := s.configStore.Set(keyEmbedRateLimit, settings.Embedding.RateLimit); err != nil {
			return fmt.Errorf("save embedding rate_limit: %w", err)
		}
	}

	if err := s.configStore.Set(keyCorpusBackend, settings.Corpus.Backend.String()); err != nil {
		return fmt.Errorf("save corpus backend: %w", err)
	}
	if err := s.configStore.Set(keyCorpusPath, settings.Corpus.Path); err != nil {
		return fmt.Errorf("save corpus path: %w", err)
	}
	// DSNs usually carry credentials; keep them out of the file unless
	// they were put there explicitly.
	if settings.Corpus.DSN != "" && settings.Corpus.DSN != s.getenv(EnvDatabaseURL) {
		if err := s.configStore.Set(keyCorpusDSN, settings.Corpus.DSN); err != nil {
			return fmt.Errorf("save corpus dsn: %w", err)
		}
	}

	if err := s.configStore.Set(keyTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save retrieval top_k: %w", err)
	}
	if err := s.configStore.Set(keyCacheSize, settings.Retrieval.CacheSize); err != nil {
		return fmt.Errorf("save retrieval cache_size: %w", err)
	}

	if err := s.configStore.Set(keyContentDir, settings.Ingest.ContentDir); err != nil {
		return fmt.Errorf("save ingest content_dir: %w", err)
	}
	if err := s.configStore.Set(keyProcessors, settings.Ingest.Processors); err != nil {
		return fmt.Errorf("save ingest processors: %w", err)
	}

	if err := s.configStore.Set(keyServerAddr, settings.Server.Addr); err != nil {
		return fmt.Errorf("save server addr: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
// An empty model selects the provider default.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, baseURL string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidProvider, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.Model = model

	switch {
	case baseURL != "":
		settings.Embedding.BaseURL = baseURL
	case provider == domain.EmbeddingProviderOllama:
		settings.Embedding.BaseURL = defaultOllamaURL
	default:
		settings.Embedding.BaseURL = ""
	}

	return s.Save(settings)
}

// SetCorpusBackend configures the corpus store. location is a directory
// for sqlite and a DSN for postgres; it is ignored for memory.
func (s *SettingsService) SetCorpusBackend(backend domain.CorpusBackend, location string) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidBackend, backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Corpus.Backend = backend
	switch backend {
	case domain.CorpusBackendSQLite:
		settings.Corpus.Path = location
	case domain.CorpusBackendPostgres:
		settings.Corpus.DSN = location
	case domain.CorpusBackendMemory:
	}

	return s.Save(settings)
}

// Validate checks that the configured provider and backend can be built.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Embedding.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q requires %s to be set",
			settings.Embedding.Provider.Description(), EnvOpenAIAPIKey)
	}
	if !settings.Corpus.Backend.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidBackend, settings.Corpus.Backend)
	}
	if settings.Corpus.Backend == domain.CorpusBackendPostgres && settings.Corpus.DSN == "" {
		return fmt.Errorf("postgres backend requires %s or %s", keyCorpusDSN, EnvDatabaseURL)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// Per-processor settings are read from ingest.<name>.<key>.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	cfg := domain.DefaultPipelineConfig()

	if processors := s.configStore.GetStringSlice(keyProcessors); len(processors) > 0 {
		cfg.Processors = processors
	}

	for _, name := range cfg.Processors {
		prefix := "ingest." + name + "."
		procCfg := make(map[string]any)
		for _, key := range processorConfigKeys {
			if val, exists := s.configStore.Get(prefix + key); exists {
				procCfg[key] = val
			}
		}
		if len(procCfg) == 0 {
			continue
		}
		if cfg.ProcessorConfigs == nil {
			cfg.ProcessorConfigs = make(map[string]map[string]any)
		}
		cfg.ProcessorConfigs[name] = procCfg
	}

	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (s *SettingsService) getProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	provider := domain.EmbeddingProvider(s.configStore.GetString(keyEmbedProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.CorpusBackend) domain.CorpusBackend {
	backend := domain.CorpusBackend(s.configStore.GetString(keyCorpusBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
