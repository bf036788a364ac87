package handler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/retry"
)

type mockLLM struct {
	wordResponse    string
	textResponse    string
	grammarResponse string
	detectResponse  string
	err             error
	// onCall runs inside every provider call, before it returns.
	onCall func()

	wordCalls    atomic.Int32
	textCalls    atomic.Int32
	grammarCalls atomic.Int32
	detectCalls  atomic.Int32
}

func (m *mockLLM) Name() string { return "mock-llm" }

func (m *mockLLM) call(counter *atomic.Int32, response string) (string, error) {
	counter.Add(1)
	if m.onCall != nil {
		m.onCall()
	}
	return response, m.err
}

func (m *mockLLM) TranslateWord(_ context.Context, _ string, _, _ domain.Language) (string, error) {
	return m.call(&m.wordCalls, m.wordResponse)
}

func (m *mockLLM) TranslateText(_ context.Context, _ string, _, _ domain.Language) (string, error) {
	return m.call(&m.textCalls, m.textResponse)
}

func (m *mockLLM) ReviewGrammar(_ context.Context, _ string) (string, error) {
	return m.call(&m.grammarCalls, m.grammarResponse)
}

func (m *mockLLM) DetectLanguage(_ context.Context, _ string) (string, error) {
	return m.call(&m.detectCalls, m.detectResponse)
}

type mockTTS struct {
	audio     []byte
	err       error
	callCount atomic.Int32
}

func (m *mockTTS) Name() string { return "mock-tts" }

func (m *mockTTS) GenerateSpeech(_ context.Context, _ string, _ domain.PartOfSpeech) ([]byte, error) {
	m.callCount.Add(1)
	return m.audio, m.err
}

type mockPlayer struct {
	mu     sync.Mutex
	played [][]byte
	err    error
}

func (m *mockPlayer) Play(_ context.Context, audio []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, audio)
	return m.err
}

// memRepo is an in-memory domain.Repository with first-writer-wins saves.
type memRepo struct {
	mu      sync.Mutex
	cache   map[string]domain.CacheEntry
	history []domain.HistoryEntry
}

func newMemRepo() *memRepo {
	return &memRepo{cache: make(map[string]domain.CacheEntry)}
}

func (r *memRepo) GetCached(_ context.Context, fp string) (domain.CacheEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.cache[fp]
	return e, ok, nil
}

func (r *memRepo) SaveCached(_ context.Context, e domain.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cache[e.Fingerprint]; !ok {
		r.cache[e.Fingerprint] = e
	}
	return nil
}

func (r *memRepo) AppendHistory(_ context.Context, e domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, e)
	return nil
}

func (r *memRepo) RecentHistory(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.HistoryEntry{}
	for i := len(r.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.history[i])
	}
	return out, nil
}

func (r *memRepo) counts() (cache, history int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache), len(r.history)
}

type fixture struct {
	llm    *mockLLM
	tts    *mockTTS
	player *mockPlayer
	repo   *memRepo
	now    time.Time
	h      *Handlers
}

func newFixture(llm *mockLLM) *fixture {
	f := &fixture{
		llm:    llm,
		tts:    &mockTTS{audio: []byte("ID3-audio")},
		player: &mockPlayer{},
		repo:   newMemRepo(),
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.h = New(Deps{
		LLM:    f.llm,
		TTS:    f.tts,
		Player: f.player,
		Repo:   f.repo,
	}, Config{
		CacheTTL: DefaultCacheTTL,
		Retry:    retry.Policy{Attempts: 3, Delays: []time.Duration{0, 0, 0}},
		Now:      func() time.Time { return f.now },
	})
	return f
}
