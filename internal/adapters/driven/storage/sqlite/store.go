package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/microverse/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driven"
	"github.com/custodia-labs/microverse/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// DBFileName is the database file created in the data directory.
const DBFileName = "corpus.db"

// Store is a SQLite-backed corpus.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.microverse/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".microverse", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	// WAL lets the HTTP server read while an ingest run writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every NNN_name.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

// Insert stores docs in one transaction. Existing IDs are replaced and
// keep their original position.
func (s *Store) Insert(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	return s.inTx(ctx, "insert", func(tx *sql.Tx) error {
		return insertDocuments(ctx, tx, docs)
	})
}

// Replace deletes every stored document and inserts docs in one transaction.
func (s *Store) Replace(ctx context.Context, docs []domain.Document) error {
	return s.inTx(ctx, "replace", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
			return fmt.Errorf("clearing documents: %w", err)
		}
		return insertDocuments(ctx, tx, docs)
	})
}

func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	return nil
}

func insertDocuments(ctx context.Context, tx *sql.Tx, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, work, author, content, embedding, year, era, topic, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			work = excluded.work,
			author = excluded.author,
			content = excluded.content,
			embedding = excluded.embedding,
			year = excluded.year,
			era = excluded.era,
			topic = excluded.topic,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		topic, err := json.Marshal(nonNil(d.Topic))
		if err != nil {
			return fmt.Errorf("marshalling topic: %w", err)
		}
		createdAt := d.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		var embedding sql.NullString
		if d.HasEmbedding() {
			embedding = sql.NullString{String: domain.FormatEmbedding(d.Embedding), Valid: true}
		}

		var year sql.NullInt64
		if d.Year != nil {
			year = sql.NullInt64{Int64: int64(*d.Year), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			d.ID, d.Work, d.Author, d.Content, embedding, year, d.Era, string(topic), createdAt.UTC(),
		); err != nil {
			return fmt.Errorf("inserting document %s: %w", d.ID, err)
		}
	}

	return nil
}

// Load returns every document in insertion order. Embeddings that fail to
// parse come back nil.
func (s *Store) Load(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, work, author, content, embedding, year, era, topic, created_at
		FROM documents ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

func scanDocument(rows *sql.Rows) (domain.Document, error) {
	var (
		d         domain.Document
		embedding sql.NullString
		year      sql.NullInt64
		topic     string
		createdAt sql.NullTime
	)
	if err := rows.Scan(&d.ID, &d.Work, &d.Author, &d.Content, &embedding, &year, &d.Era, &topic, &createdAt); err != nil {
		return d, fmt.Errorf("scanning document: %w", err)
	}

	if embedding.Valid {
		d.Embedding = domain.ParseEmbedding(embedding.String)
	}
	if year.Valid {
		y := int(year.Int64)
		d.Year = &y
	}
	if topic != "" {
		if err := json.Unmarshal([]byte(topic), &d.Topic); err != nil {
			logger.Debug("Document %s has unreadable topic %q", d.ID, topic)
		}
	}
	if len(d.Topic) == 0 {
		d.Topic = nil
	}
	if createdAt.Valid {
		d.CreatedAt = createdAt.Time
	}
	return d, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
