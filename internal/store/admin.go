package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/valpere/tlumacz/internal/domain"
)

// CacheInfo describes a cache row without its payload.
type CacheInfo struct {
	Fingerprint string
	Operation   domain.Operation
	Size        int
	CreatedAt   time.Time
}

// CacheStats summarises cache and history usage.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	TotalBytes     int64
	ByOperation    map[domain.Operation]int
	HistoryEntries int
}

// ListCache returns up to limit cache rows, newest first. A limit below 1
// lists everything.
func (s *Store) ListCache(ctx context.Context, limit int) ([]CacheInfo, error) {
	b := s.sq.
		Select("fingerprint", "operation", "length(payload)", "created_at").
		From("cache_entries").
		OrderBy("created_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build cache listing: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	defer rows.Close()

	var results []CacheInfo
	for rows.Next() {
		var (
			info      CacheInfo
			op        string
			createdMs int64
		)
		if err := rows.Scan(&info.Fingerprint, &op, &info.Size, &createdMs); err != nil {
			return nil, err
		}
		info.Operation = domain.Operation(op)
		info.CreatedAt = time.UnixMilli(createdMs)
		results = append(results, info)
	}
	return results, rows.Err()
}

// Stats counts cache rows, treating rows created at or before cutoff as
// expired. That matches the handlers, which miss once an entry's age reaches
// the TTL.
func (s *Store) Stats(ctx context.Context, cutoff time.Time) (*CacheStats, error) {
	stats := &CacheStats{ByOperation: make(map[domain.Operation]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN created_at <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(length(payload)), 0)
		FROM cache_entries`, cutoff.UnixMilli()).Scan(
		&stats.TotalEntries,
		&stats.ExpiredEntries,
		&stats.TotalBytes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count cache entries: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT operation, COUNT(*) FROM cache_entries GROUP BY operation`)
	if err != nil {
		return nil, fmt.Errorf("failed to group cache entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var op string
		var n int
		if err := rows.Scan(&op, &n); err != nil {
			return nil, err
		}
		stats.ByOperation[domain.Operation(op)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&stats.HistoryEntries); err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}
	return stats, nil
}

// PurgeExpired deletes cache rows created at or before cutoff.
func (s *Store) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.deleteCache(ctx, sq.LtOrEq{"created_at": cutoff.UnixMilli()})
}

// DeleteCache removes the row stored under fingerprint and reports whether
// one existed.
func (s *Store) DeleteCache(ctx context.Context, fingerprint string) (bool, error) {
	n, err := s.deleteCache(ctx, sq.Eq{"fingerprint": fingerprint})
	return n > 0, err
}

// ClearCache removes every cache row. History is kept.
func (s *Store) ClearCache(ctx context.Context) (int64, error) {
	return s.deleteCache(ctx, nil)
}

func (s *Store) deleteCache(ctx context.Context, where sq.Sqlizer) (int64, error) {
	b := s.sq.Delete("cache_entries")
	if where != nil {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cache delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return res.RowsAffected()
}
