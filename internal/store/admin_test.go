package store

import (
	"context"
	"testing"
	"time"

	"github.com/valpere/tlumacz/internal/domain"
)

func seedCache(t *testing.T, s *Store, now time.Time) {
	t.Helper()
	entries := []domain.CacheEntry{
		{Fingerprint: "old", Operation: domain.OpTranslateWord, Payload: []byte("12345"), CreatedAt: now.Add(-40 * 24 * time.Hour)},
		{Fingerprint: "new-word", Operation: domain.OpTranslateWord, Payload: []byte("123"), CreatedAt: now.Add(-time.Hour)},
		{Fingerprint: "new-audio", Operation: domain.OpPlayPronunciation, Payload: []byte("ID3"), CreatedAt: now},
	}
	for _, e := range entries {
		if err := s.SaveCached(context.Background(), e); err != nil {
			t.Fatalf("SaveCached failed: %v", err)
		}
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	seedCache(t, s, now)
	if err := s.AppendHistory(context.Background(), domain.HistoryEntry{Operation: domain.OpTranslateWord, Input: "kot", Output: "{}"}); err != nil {
		t.Fatalf("AppendHistory failed: %v", err)
	}

	stats, err := s.Stats(context.Background(), now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", stats.TotalEntries)
	}
	if stats.ExpiredEntries != 1 {
		t.Errorf("expected 1 expired entry, got %d", stats.ExpiredEntries)
	}
	if stats.TotalBytes != 11 {
		t.Errorf("expected 11 bytes, got %d", stats.TotalBytes)
	}
	if stats.ByOperation[domain.OpTranslateWord] != 2 {
		t.Errorf("expected 2 word entries, got %d", stats.ByOperation[domain.OpTranslateWord])
	}
	if stats.HistoryEntries != 1 {
		t.Errorf("expected 1 history entry, got %d", stats.HistoryEntries)
	}
}

func TestStore_ListCache(t *testing.T) {
	s := newTestStore(t)
	seedCache(t, s, time.Now())

	got, err := s.ListCache(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListCache failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Fingerprint != "new-audio" {
		t.Errorf("expected newest first, got %q", got[0].Fingerprint)
	}
	if got[0].Size != 3 {
		t.Errorf("expected size 3, got %d", got[0].Size)
	}
}

func TestStore_PurgeExpired(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	seedCache(t, s, now)

	n, err := s.PurgeExpired(context.Background(), now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged entry, got %d", n)
	}
	if _, found, _ := s.GetCached(context.Background(), "old"); found {
		t.Error("expected expired entry to be gone")
	}
	if _, found, _ := s.GetCached(context.Background(), "new-word"); !found {
		t.Error("expected fresh entry to remain")
	}
}

func TestStore_ExpiryBoundary(t *testing.T) {
	s := newTestStore(t)
	ttl := 30 * 24 * time.Hour
	now := time.UnixMilli(time.Now().UnixMilli())
	cutoff := now.Add(-ttl)

	entries := []domain.CacheEntry{
		{Fingerprint: "exactly-ttl", Operation: domain.OpTranslateWord, Payload: []byte("a"), CreatedAt: cutoff},
		{Fingerprint: "just-fresh", Operation: domain.OpTranslateWord, Payload: []byte("b"), CreatedAt: cutoff.Add(time.Millisecond)},
	}
	for _, e := range entries {
		if err := s.SaveCached(context.Background(), e); err != nil {
			t.Fatalf("SaveCached failed: %v", err)
		}
	}

	stats, err := s.Stats(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.ExpiredEntries != 1 {
		t.Errorf("expected the entry exactly ttl old to count as expired, got %d", stats.ExpiredEntries)
	}

	n, err := s.PurgeExpired(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged entry, got %d", n)
	}
	if _, found, _ := s.GetCached(context.Background(), "exactly-ttl"); found {
		t.Error("expected entry exactly ttl old to be purged")
	}
	if _, found, _ := s.GetCached(context.Background(), "just-fresh"); !found {
		t.Error("expected entry younger than ttl to remain")
	}
}

func TestStore_DeleteCache(t *testing.T) {
	s := newTestStore(t)
	seedCache(t, s, time.Now())

	deleted, err := s.DeleteCache(context.Background(), "new-word")
	if err != nil {
		t.Fatalf("DeleteCache failed: %v", err)
	}
	if !deleted {
		t.Error("expected entry to be deleted")
	}

	deleted, err = s.DeleteCache(context.Background(), "new-word")
	if err != nil {
		t.Fatalf("DeleteCache failed: %v", err)
	}
	if deleted {
		t.Error("expected second delete to report nothing removed")
	}
}

func TestStore_ClearCache(t *testing.T) {
	s := newTestStore(t)
	seedCache(t, s, time.Now())
	if err := s.AppendHistory(context.Background(), domain.HistoryEntry{Operation: domain.OpTranslateWord, Input: "kot", Output: "{}"}); err != nil {
		t.Fatalf("AppendHistory failed: %v", err)
	}

	n, err := s.ClearCache(context.Background())
	if err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 cleared entries, got %d", n)
	}

	history, err := s.RecentHistory(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected history to be kept, got %d entries", len(history))
	}
}
