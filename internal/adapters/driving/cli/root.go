// Package cli provides the cobra command tree for the microverse binary.
package cli

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
	"github.com/custodia-labs/microverse/internal/logger"
)

var verbose bool

// Services holds the core services the commands call. Close releases the
// corpus store and embedding provider.
type Services struct {
	Retrieval driving.RetrievalService
	Intent    driving.IntentService
	Ingest    driving.IngestService

	// ContentDir is the directory watched by serve --watch.
	ContentDir string

	// ServerAddr is the default listen address for serve.
	ServerAddr string

	// DefaultTopK replaces the search -k default when set.
	DefaultTopK int

	// Metrics serves /metrics. Optional.
	Metrics http.Handler

	Close func() error
}

// Bootstrap builds Services on first use.
type Bootstrap func(ctx context.Context) (*Services, error)

var (
	settingsService driving.SettingsService
	configStore     driven.ConfigStore

	bootstrap   Bootstrap
	servicesMu  sync.Mutex
	cached      *Services
	cachedErr   error
)

var rootCmd = &cobra.Command{
	Use:   "microverse",
	Short: "Semantic retrieval for the microverse generator",
	Long: `microverse embeds a corpus of source passages, retrieves the passages
nearest to a query and maps them to visual and audio control patches.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetConfig provides the configuration layer. It is available to every
// command without touching the corpus.
func SetConfig(store driven.ConfigStore, settings driving.SettingsService) {
	configStore = store
	settingsService = settings
}

// SetBootstrap registers the function that builds the core services.
func SetBootstrap(fn Bootstrap) {
	servicesMu.Lock()
	defer servicesMu.Unlock()
	bootstrap = fn
	cached = nil
	cachedErr = nil
}

// setServices installs prebuilt services, bypassing the bootstrap.
func setServices(s *Services) {
	servicesMu.Lock()
	defer servicesMu.Unlock()
	cached = s
	cachedErr = nil
}

// requireServices builds the services once and returns them.
func requireServices(ctx context.Context) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	if cached != nil || cachedErr != nil {
		return cached, cachedErr
	}
	if bootstrap == nil {
		return nil, errors.New("services not configured")
	}
	cached, cachedErr = bootstrap(ctx)
	return cached, cachedErr
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		servicesMu.Lock()
		defer servicesMu.Unlock()
		if cached != nil && cached.Close != nil {
			if err := cached.Close(); err != nil {
				logger.Warn("closing services: %v", err)
			}
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}
