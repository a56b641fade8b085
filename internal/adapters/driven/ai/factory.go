// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	hashembed "github.com/custodia-labs/microverse/internal/adapters/driven/embedding/hash"
	ollamaembed "github.com/custodia-labs/microverse/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/microverse/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/microverse/internal/adapters/driven/embedding/throttle"
	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService builds the embedding service named by settings,
// throttled when a rate limit is configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return hashembed.NewEmbeddingService(domain.EmbeddingDimensions), nil
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s is not configured", domain.ErrInvalidProvider, settings.Provider)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.EmbeddingProviderHash:
		svc = hashembed.NewEmbeddingService(domain.EmbeddingDimensions)

	case domain.EmbeddingProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions,
		})

	case domain.EmbeddingProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions,
		})
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}

	return throttle.Wrap(svc, settings.RateLimit, throttle.DefaultBurst), nil
}

// CreateAndValidateEmbeddingService creates an embedding service and checks
// it is reachable within pingTimeout. Failures wrap domain.ErrEmbeddingUnavailable.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'microverse config set embedding.provider hash' to work offline",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig creates a service for settings and pings it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
