// Package store is the SQLite repository behind the result cache and the
// operation history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/valpere/tlumacz/internal/domain"
)

type Store struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

var _ domain.Repository = (*Store)(nil)

// New opens (creating if needed) the database at dbPath and applies the
// schema. The parent directory must exist.
func New(dbPath string) (*Store, error) {
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps writers queued in
	// database/sql instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, sq: sq.StatementBuilder}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	-- cache_entries holds one provider result per fingerprint; rows are never updated
	CREATE TABLE IF NOT EXISTS cache_entries (
		fingerprint TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);

	-- history is append-only; seq breaks ties between equal timestamps
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		operation TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cache_created ON cache_entries(created_at);
	CREATE INDEX IF NOT EXISTS idx_history_recent ON history(created_at DESC, seq DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetCached returns the entry stored under fingerprint, if any. Age is not
// checked here.
func (s *Store) GetCached(ctx context.Context, fingerprint string) (domain.CacheEntry, bool, error) {
	query, args, err := s.sq.
		Select("fingerprint", "operation", "payload", "created_at").
		From("cache_entries").
		Where(sq.Eq{"fingerprint": fingerprint}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("failed to build cache query: %w", err)
	}

	var (
		e         domain.CacheEntry
		op        string
		createdMs int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&e.Fingerprint, &op, &e.Payload, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	e.Operation = domain.Operation(op)
	e.CreatedAt = time.UnixMilli(createdMs)
	return e, true, nil
}

// SaveCached inserts entry unless its fingerprint is already stored. The first
// writer wins; a losing write is discarded without error.
func (s *Store) SaveCached(ctx context.Context, entry domain.CacheEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	payload := entry.Payload
	if payload == nil {
		payload = []byte{}
	}

	query, args, err := s.sq.
		Insert("cache_entries").
		Columns("fingerprint", "operation", "payload", "created_at").
		Values(entry.Fingerprint, string(entry.Operation), payload, createdAt.UnixMilli()).
		Suffix("ON CONFLICT(fingerprint) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cache insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

// AppendHistory records entry, assigning an ID and timestamp when missing.
func (s *Store) AppendHistory(ctx context.Context, entry domain.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query, args, err := s.sq.
		Insert("history").
		Columns("id", "operation", "input", "output", "created_at").
		Values(entry.ID, string(entry.Operation), entry.Input, entry.Output, entry.CreatedAt.UnixMilli()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build history insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit entries, most recent first.
func (s *Store) RecentHistory(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit < 1 {
		return []domain.HistoryEntry{}, nil
	}

	query, args, err := s.sq.
		Select("id", "operation", "input", "output", "created_at").
		From("history").
		OrderBy("created_at DESC", "seq DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			op        string
			createdMs int64
		)
		if err := rows.Scan(&e.ID, &op, &e.Input, &e.Output, &createdMs); err != nil {
			return nil, err
		}
		e.Operation = domain.Operation(op)
		e.CreatedAt = time.UnixMilli(createdMs)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
