package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

// embeddingValidator pings a provider before its settings are kept.
var embeddingValidator func(*domain.EmbeddingSettings) error

// SetEmbeddingValidator registers the provider check used by
// "settings embedding".
func SetEmbeddingValidator(fn func(*domain.EmbeddingSettings) error) {
	embeddingValidator = fn
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider and corpus backend.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the provider that embeds queries and passages.

Changing provider or model invalidates stored embeddings; re-run ingest.`,
	RunE: runSettingsEmbedding,
}

var settingsCorpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Configure corpus backend",
	Long: `Select where passages are stored.

Available backends:
  sqlite    - Local database file (default)
  postgres  - PostgreSQL with the pgvector extension
  memory    - Process memory, lost on exit`,
	RunE: runSettingsCorpus,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsCorpusCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if settings.Embedding.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", settings.Embedding.RateLimit)
	}
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Backend: %s\n", settings.Corpus.Backend)
	switch settings.Corpus.Backend {
	case domain.CorpusBackendPostgres:
		if settings.Corpus.DSN != "" {
			cmd.Printf("  DSN: %s\n", maskDSN(settings.Corpus.DSN))
		} else {
			cmd.Printf("  DSN: (not set)\n")
		}
	case domain.CorpusBackendSQLite:
		if settings.Corpus.Path != "" {
			cmd.Printf("  Path: %s\n", settings.Corpus.Path)
		}
	}
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Cache size: %d\n", settings.Retrieval.CacheSize)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Content dir: %s\n", settings.Ingest.ContentDir)
	cmd.Printf("  Processors: %s\n", strings.Join(settings.Ingest.Processors, ", "))
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'microverse settings embedding' or 'microverse settings corpus' to fix.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var baseURL string
	if selected == domain.EmbeddingProviderOllama {
		cmd.Print("Enter base URL [http://localhost:11434]: ")
		baseURL = readLine(reader)
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key (blank to use OPENAI_API_KEY): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetEmbeddingProvider(selected, model, baseURL); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}
	if apiKey != "" && configStore != nil {
		if err := configStore.Set("embedding.api_key", apiKey); err != nil {
			return fmt.Errorf("failed to save API key: %w", err)
		}
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.Embedding.IsConfigured() {
		return errors.New("API key is required for this provider")
	}

	if embeddingValidator != nil {
		cmd.Print("Validating configuration... ")
		if err := embeddingValidator(&settings.Embedding); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", selected.Description(), model)
	cmd.Println("Re-run 'microverse ingest' so stored passages use the new model.")
	return nil
}

func runSettingsCorpus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	backends := []domain.CorpusBackend{
		domain.CorpusBackendSQLite,
		domain.CorpusBackendPostgres,
		domain.CorpusBackendMemory,
	}

	cmd.Println("Select Corpus Backend")
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b)
	}
	cmd.Print("\nEnter choice [1]: ")
	selected := backends[parseChoice(readLine(reader), len(backends), 1)-1]

	var location string
	switch selected {
	case domain.CorpusBackendSQLite:
		cmd.Print("Enter data directory [~/.microverse/data]: ")
		location = readLine(reader)
	case domain.CorpusBackendPostgres:
		cmd.Print("Enter connection string (blank to use MICROVERSE_DATABASE_URL): ")
		location = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetCorpusBackend(selected, location); err != nil {
		return fmt.Errorf("failed to configure corpus backend: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}

	cmd.Printf("Corpus backend set to: %s\n", selected)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDSN hides the password in a connection URL.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		creds = creds[:i] + ":****"
	}
	return dsn[:scheme+3] + creds + dsn[at:]
}
