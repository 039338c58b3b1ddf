package collection

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mkrupp/shopcase/internal/domain"
	"github.com/mkrupp/shopcase/internal/infra/logging"
)

// SQLiteCollectionRepositoryConfig holds configuration for the SQLite collection repository.
type SQLiteCollectionRepositoryConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/storesvc.db"`
}

// SQLiteCollectionRepository implements Repository using SQLite as the
// storage backend. Snapshots are stored as JSON arrays of line items, one
// row per (owner, kind).
type SQLiteCollectionRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteCollectionRepository)(nil)

// SQLiteCollectionRepositoryFactory creates a factory function that returns
// a new SQLiteCollectionRepository. The factory function implements the
// RepositoryFactory type.
func SQLiteCollectionRepositoryFactory(cfg SQLiteCollectionRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLiteCollectionRepository(cfg)
	}
}

// NewSQLiteCollectionRepository creates a new SQLiteCollectionRepository
// with the given configuration. It initializes the database connection and
// creates the schema if needed. Returns an error if database connection or
// initialization fails.
func NewSQLiteCollectionRepository(cfg SQLiteCollectionRepositoryConfig) (*SQLiteCollectionRepository, error) {
	log := logging.GetLogger("repo.collection.sqlite_collection_repository").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteCollectionRepository{
		db:        db,
		log:       log,
		writeLock: new(sync.Mutex),
	}, nil
}

func initializeDB(db *sql.DB) (err error) {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			owner      TEXT    NOT NULL,
			kind       TEXT    NOT NULL,
			items      TEXT    NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (owner, kind)
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Load implements Repository.Load using SQLite. There is no version field in
// the serialized snapshot; any row that fails to decode is discarded and the
// collection starts empty.
func (r *SQLiteCollectionRepository) Load(
	ctx context.Context,
	owner string,
	kind domain.CollectionKind,
) ([]domain.LineItem, error) {
	var serialized string

	err := r.db.QueryRow(
		"SELECT items FROM collections WHERE owner = ? AND kind = ?",
		owner,
		kind.StorageKey(),
	).Scan(&serialized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.LineItem{}, nil
		}

		return nil, fmt.Errorf("query collection: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(serialized), &items); err != nil {
		r.log.WarnContext(ctx, "discarding undecodable snapshot",
			logging.Group("collection", "owner", owner, "kind", kind),
			"error", err,
		)

		return []domain.LineItem{}, nil
	}

	if items == nil {
		items = []domain.LineItem{}
	}

	return items, nil
}

// Save implements Repository.Save using SQLite.
func (r *SQLiteCollectionRepository) Save(
	ctx context.Context,
	owner string,
	kind domain.CollectionKind,
	items []domain.LineItem,
) error {
	if items == nil {
		items = []domain.LineItem{}
	}

	serialized, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO collections (owner, kind, items, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (owner, kind) DO UPDATE SET items = excluded.items, updated_at = excluded.updated_at
	`, owner, kind.StorageKey(), string(serialized), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert collection: %w", err)
	}

	return nil
}

// Close implements Repository.Close by closing the database connection.
func (r *SQLiteCollectionRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
