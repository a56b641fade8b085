package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/microverse/internal/adapters/driven/ai"
	"github.com/custodia-labs/microverse/internal/adapters/driven/mapper/topic"
	"github.com/custodia-labs/microverse/internal/adapters/driven/metrics"
	"github.com/custodia-labs/microverse/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/microverse/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/microverse/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/microverse/internal/adapters/driving/cli"
	"github.com/custodia-labs/microverse/internal/connectors/filesystem"
	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/core/services"
	"github.com/custodia-labs/microverse/internal/logger"
	"github.com/custodia-labs/microverse/internal/normalisers"
	"github.com/custodia-labs/microverse/internal/normalisers/markdown"
	"github.com/custodia-labs/microverse/internal/normalisers/plaintext"
	"github.com/custodia-labs/microverse/internal/postprocessors"
)

// bootstrap builds the core services from the current settings.
func bootstrap(ctx context.Context, settingsSvc *services.SettingsService) (*cli.Services, error) {
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsSvc.Validate(); err != nil {
		return nil, err
	}

	// Remote providers are pinged so a stopped Ollama or a bad key fails here.
	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}

	store, err := openCorpus(ctx, settings.Corpus)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}
	logger.Debug("corpus backend %s, embedder %s", settings.Corpus.Backend, embedder.ModelName())

	recorder := metrics.NewRecorder()
	retrieval := services.NewRetrievalService(embedder, store, services.NewEmbeddingCache(settings.Retrieval.CacheSize))
	retrieval.SetMetrics(recorder)

	pipelineCfg := settingsSvc.GetPipelineConfig()
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := registry.BuildPipeline(pipelineCfg.Processors, pipelineCfg.ProcessorConfigs)
	if err != nil {
		_ = store.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("building ingest pipeline: %w", err)
	}

	ingest := services.NewIngestService(
		filesystem.NewLoader(),
		normalisers.NewRegistry(markdown.New(), plaintext.New()),
		pipeline,
		embedder,
		store,
		settings.Ingest.ContentDir,
	)

	// A memory corpus starts empty every run.
	if settings.Corpus.Backend == domain.CorpusBackendMemory {
		if _, err := ingest.Ingest(ctx, domain.IngestOptions{}); err != nil {
			logger.Warn("initial ingest: %v", err)
		}
	}

	return &cli.Services{
		Retrieval:   retrieval,
		Intent:      services.NewIntentService(retrieval, topic.New()),
		Ingest:      ingest,
		ContentDir:  settings.Ingest.ContentDir,
		ServerAddr:  settings.Server.Addr,
		DefaultTopK: settings.Retrieval.TopK,
		Metrics:     recorder.Handler(),
		Close: func() error {
			return errors.Join(store.Close(), embedder.Close())
		},
	}, nil
}

// openCorpus opens the configured corpus store.
func openCorpus(ctx context.Context, cfg domain.CorpusSettings) (driven.CorpusStore, error) {
	switch cfg.Backend {
	case domain.CorpusBackendMemory:
		return memory.NewCorpusStore(), nil
	case domain.CorpusBackendPostgres:
		store, err := postgres.NewStore(ctx, postgres.Config{DSN: cfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
		}
		return store, nil
	case domain.CorpusBackendSQLite, "":
		store, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidBackend, cfg.Backend)
	}
}
