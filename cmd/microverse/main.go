// Command microverse is the semantic retrieval engine behind the
// microverse generator.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/microverse/internal/adapters/driven/ai"
	"github.com/custodia-labs/microverse/internal/adapters/driven/config/file"
	"github.com/custodia-labs/microverse/internal/adapters/driving/cli"
	"github.com/custodia-labs/microverse/internal/core/services"
	"github.com/custodia-labs/microverse/internal/logger"
)

// envConfigDir overrides the config directory (default ~/.microverse).
const envConfigDir = "MICROVERSE_CONFIG_DIR"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("loading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore(os.Getenv(envConfigDir))
	if err != nil {
		logger.Error("loading config: %v", err)
		return 1
	}
	settings := services.NewSettingsService(configStore)

	cli.SetConfig(configStore, settings)
	cli.SetEmbeddingValidator(ai.ValidateEmbeddingConfig)
	cli.SetBootstrap(func(ctx context.Context) (*cli.Services, error) {
		return bootstrap(ctx, settings)
	})

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
