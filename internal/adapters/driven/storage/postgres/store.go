// Package postgres provides a corpus store on PostgreSQL with pgvector.
//
// Embeddings are written as native vector values and read back through
// their text form, so rows written by other tools with a different
// dimension or a legacy encoding still load.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// DefaultTable is the corpus table name.
const DefaultTable = "documents"

// ErrMissingDSN is returned when no connection string is configured.
var ErrMissingDSN = errors.New("postgres: connection string is required")

// Config holds configuration for the Postgres corpus store.
type Config struct {
	// DSN is the connection string (required).
	DSN string

	// Dimensions is the vector column size (default: 384).
	Dimensions int
}

// Store is a pgvector-backed corpus.
type Store struct {
	pool       *pgxpool.Pool
	dimensions int
}

// newPoolConfig parses dsn and registers the pgvector types on every
// new connection.
func newPoolConfig(dsn string) (*pgxpool.Config, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse connection string: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	return cfg, nil
}

// NewStore connects, checks the vector extension and ensures the schema.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.EmbeddingDimensions
	}

	poolCfg, err := newPoolConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	var extExists bool
	err = pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector')",
	).Scan(&extExists)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: check pgvector extension: %w", err)
	}
	if !extExists {
		pool.Close()
		return nil, errors.New("postgres: pgvector extension not installed - run: CREATE EXTENSION vector")
	}

	s := &Store{pool: pool, dimensions: cfg.Dimensions}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			seq        BIGSERIAL,
			id         TEXT PRIMARY KEY,
			work       TEXT NOT NULL DEFAULT '',
			author     TEXT NOT NULL DEFAULT '',
			content    TEXT NOT NULL,
			embedding  vector(%[2]d),
			year       INTEGER,
			era        TEXT NOT NULL DEFAULT '',
			topic      TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, DefaultTable, s.dimensions)

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

// Insert upserts docs in one batch.
func (s *Store) Insert(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	batch, err := s.upsertBatch(docs)
	if err != nil {
		return err
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: insert: %w", err)
	}
	return nil
}

// Replace deletes every stored document and inserts docs in one transaction.
func (s *Store) Replace(ctx context.Context, docs []domain.Document) error {
	batch, err := s.upsertBatch(docs)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin replace: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, DefaultTable)); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("postgres: replace: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit replace: %w", err)
	}
	return nil
}

func (s *Store) upsertBatch(docs []domain.Document) (*pgx.Batch, error) {
	batch := &pgx.Batch{}
	for _, d := range docs {
		var embedding any
		if d.HasEmbedding() {
			if len(d.Embedding) != s.dimensions {
				return nil, fmt.Errorf("postgres: document %s has %d dimensions, want %d",
					d.ID, len(d.Embedding), s.dimensions)
			}
			embedding = pgvector.NewVector(toFloat32(d.Embedding))
		}
		createdAt := d.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		topic := d.Topic
		if topic == nil {
			topic = []string{}
		}

		batch.Queue(fmt.Sprintf(`
			INSERT INTO %s (id, work, author, content, embedding, year, era, topic, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				work = EXCLUDED.work,
				author = EXCLUDED.author,
				content = EXCLUDED.content,
				embedding = EXCLUDED.embedding,
				year = EXCLUDED.year,
				era = EXCLUDED.era,
				topic = EXCLUDED.topic,
				created_at = EXCLUDED.created_at`, DefaultTable),
			d.ID, d.Work, d.Author, d.Content, embedding, d.Year, d.Era, topic, createdAt)
	}
	return batch, nil
}

// Load returns every document in insertion order.
func (s *Store) Load(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, work, author, content, embedding::text, year, era, topic, created_at
		FROM %s ORDER BY seq`, DefaultTable))
	if err != nil {
		return nil, fmt.Errorf("postgres: query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var (
			d         domain.Document
			embedding *string
			year      *int32
		)
		if err := rows.Scan(&d.ID, &d.Work, &d.Author, &d.Content, &embedding, &year, &d.Era, &d.Topic, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan document: %w", err)
		}
		if embedding != nil {
			d.Embedding = domain.ParseEmbedding(*embedding)
		}
		if year != nil {
			y := int(*year)
			d.Year = &y
		}
		if len(d.Topic) == 0 {
			d.Topic = nil
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate documents: %w", err)
	}
	return docs, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+DefaultTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count documents: %w", err)
	}
	return int(n), nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
