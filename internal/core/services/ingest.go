package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
	"github.com/custodia-labs/microverse/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// embedBatchSize is the number of chunks sent per EmbedBatch call.
const embedBatchSize = 32

// IngestService turns content files into embedded corpus documents.
//
// Files are read by the loader, normalised by MIME type, split by the
// post-processor pipeline and embedded in batches before insertion.
type IngestService struct {
	loader     driven.ContentLoader
	normalise  driven.NormaliserRegistry
	pipeline   driven.PostProcessorPipeline
	embedder   driven.EmbeddingService
	store      driven.CorpusStore
	contentDir string
	now        func() time.Time
}

// NewIngestService creates an ingest service.
// contentDir is used when IngestOptions does not name a directory.
func NewIngestService(
	loader driven.ContentLoader,
	normalise driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.CorpusStore,
	contentDir string,
) *IngestService {
	if contentDir == "" {
		contentDir = domain.DefaultContentDir
	}
	return &IngestService{
		loader:     loader,
		normalise:  normalise,
		pipeline:   pipeline,
		embedder:   embedder,
		store:      store,
		contentDir: contentDir,
		now:        time.Now,
	}
}

// Ingest loads, chunks, embeds and stores every supported file in the
// content directory. An empty directory ingests the seed corpus instead.
// The stored corpus is replaced, so passages from deleted files go away
// and repeated runs over the same content leave the corpus unchanged.
func (s *IngestService) Ingest(ctx context.Context, opts domain.IngestOptions) (*domain.IngestReport, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil && !opts.DryRun {
		return nil, domain.ErrCorpusUnavailable
	}

	dir := opts.ContentDir
	if dir == "" {
		dir = s.contentDir
	}

	logger.Section("Ingestion")
	logger.Debug("Content dir: %s", dir)

	report := &domain.IngestReport{DryRun: opts.DryRun}

	sources, err := s.readSources(ctx, dir, report)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		logger.Info("No content found in %s, using seed documents", dir)
		sources = seedSources()
		report.Seeded = true
	}

	docs, err := s.chunk(ctx, sources)
	if err != nil {
		return nil, err
	}

	if err := s.embedAll(ctx, docs); err != nil {
		return nil, err
	}
	report.Documents = len(docs)

	if opts.DryRun {
		logger.Info("[DRY RUN] Would insert %d rows from %d docs.", len(docs), len(sources))
		return report, nil
	}

	if err := s.store.Replace(ctx, docs); err != nil {
		return nil, fmt.Errorf("ingest: replace: %w", err)
	}
	report.Inserted = len(docs)

	logger.Info("Inserted %d rows from %d docs", len(docs), len(sources))
	return report, nil
}

// documentNamespace scopes the name-based UUIDs of ingested passages.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://microverse/documents"))

// DocumentID derives a stable passage ID from its source and chunk
// position, so re-ingesting unchanged content yields the same IDs.
func DocumentID(src *domain.SourceText, position int) string {
	origin := src.Path
	if origin == "" {
		origin = "seed:" + src.Meta.Author + "::" + src.Meta.Work
	}
	return uuid.NewSHA1(documentNamespace, []byte(fmt.Sprintf("%s#%d", origin, position))).String()
}

// readSources loads and normalises the files in dir. Files that cannot
// be normalised or have no body are skipped with a warning.
func (s *IngestService) readSources(
	ctx context.Context, dir string, report *domain.IngestReport,
) ([]domain.SourceText, error) {
	if s.loader == nil || s.normalise == nil {
		return nil, nil
	}

	raws, err := s.loader.Load(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: load %s: %w", dir, err)
	}
	report.Files = len(raws)

	sources := make([]domain.SourceText, 0, len(raws))
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := s.normalise.Normalise(ctx, &raws[i])
		if err != nil {
			if errors.Is(err, domain.ErrEmptyContent) {
				logger.Debug("Skipping empty file %s", raws[i].Path)
			} else {
				logger.Warn("Skipping %s: %v", raws[i].Path, err)
			}
			continue
		}
		if src.Path == "" {
			src.Path = raws[i].Path
		}
		sources = append(sources, *src)
	}
	return sources, nil
}

// chunk splits every source into documents that share its metadata.
func (s *IngestService) chunk(ctx context.Context, sources []domain.SourceText) ([]domain.Document, error) {
	createdAt := s.now().UTC()

	var docs []domain.Document
	for i := range sources {
		src := &sources[i]

		chunks := []domain.Chunk{{Position: 0, Content: src.Body}}
		if s.pipeline != nil {
			var err error
			chunks, err = s.pipeline.Process(ctx, src)
			if err != nil {
				return nil, fmt.Errorf("ingest: process %q: %w", src.Meta.Work, err)
			}
		}
		logger.Debug("%s: %d chunks", src.Meta.Work, len(chunks))

		for _, c := range chunks {
			if c.Content == "" {
				continue
			}
			docs = append(docs, domain.Document{
				ID:        DocumentID(src, c.Position),
				Work:      src.Meta.Work,
				Author:    src.Meta.Author,
				Content:   c.Content,
				Year:      src.Meta.Year,
				Era:       src.Meta.Era,
				Topic:     src.Meta.Topic,
				CreatedAt: createdAt,
			})
		}
	}
	return docs, nil
}

// embedAll fills in the Embedding of every document, embedBatchSize at a time.
func (s *IngestService) embedAll(ctx context.Context, docs []domain.Document) error {
	for start := 0; start < len(docs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(docs))

		texts := make([]string, 0, end-start)
		for _, d := range docs[start:end] {
			texts = append(texts, d.Content)
		}

		vecs, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("ingest: embed: %w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		if len(vecs) != len(texts) {
			return fmt.Errorf("ingest: embed: got %d vectors for %d texts", len(vecs), len(texts))
		}
		for i, v := range vecs {
			if len(v) == 0 {
				return fmt.Errorf("ingest: embed: %w: empty vector", domain.ErrEmbeddingUnavailable)
			}
			docs[start+i].Embedding = v
		}
		logger.Debug("Embedded %d/%d", end, len(docs))
	}
	return nil
}
