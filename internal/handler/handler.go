// Package handler runs the user-facing operations.
//
// Every operation follows the same linear pipeline: validate, resolve the
// language, look up the cache, call the provider, interpret the response,
// write the cache, append history, return. Failures are returned typed and
// never logged here; see Logged for the observability wrapper.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/langresolve"
	"github.com/valpere/tlumacz/internal/retry"
	"github.com/valpere/tlumacz/internal/validator"
)

// DefaultCacheTTL is how long a cache entry is served before it is ignored.
const DefaultCacheTTL = 30 * 24 * time.Hour

// Config carries the tunables of the pipeline.
type Config struct {
	// CacheTTL is the retention window; entries older than it count as misses.
	// Zero disables expiry.
	CacheTTL time.Duration
	Retry    retry.Policy
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		CacheTTL: DefaultCacheTTL,
		Retry:    retry.Default(),
		Now:      time.Now,
	}
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Validator *validator.Validator
	Resolver  *langresolve.Resolver
	LLM       domain.LanguageModel
	TTS       domain.SpeechSynthesizer
	Player    domain.AudioPlayer
	Repo      domain.Repository
}

// Handlers implements the five operations over shared collaborators. It holds
// no mutable state and is safe for concurrent use.
type Handlers struct {
	validator *validator.Validator
	resolver  *langresolve.Resolver
	llm       domain.LanguageModel
	tts       domain.SpeechSynthesizer
	player    domain.AudioPlayer
	repo      domain.Repository
	cfg       Config
}

func New(deps Deps, cfg Config) *Handlers {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if deps.Validator == nil {
		deps.Validator = validator.New(validator.DefaultLimits())
	}
	if deps.Resolver == nil && deps.LLM != nil {
		deps.Resolver = langresolve.New(deps.LLM, langresolve.DefaultMinConfidence)
	}
	return &Handlers{
		validator: deps.Validator,
		resolver:  deps.Resolver,
		llm:       deps.LLM,
		tts:       deps.TTS,
		player:    deps.Player,
		repo:      deps.Repo,
		cfg:       cfg,
	}
}

// lookup returns the payload cached under fingerprint when it is younger than
// the retention window. Stale rows are left in place.
func (h *Handlers) lookup(ctx context.Context, fingerprint string) ([]byte, bool, error) {
	entry, found, err := h.repo.GetCached(ctx, fingerprint)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up cache: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	if h.cfg.CacheTTL > 0 && h.cfg.Now().Sub(entry.CreatedAt) >= h.cfg.CacheTTL {
		return nil, false, nil
	}
	return entry.Payload, true, nil
}

// lookupJSON decodes a fresh cached payload into out.
func (h *Handlers) lookupJSON(ctx context.Context, fingerprint string, out any) (bool, error) {
	payload, found, err := h.lookup(ctx, fingerprint)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("failed to decode cached result %s: %w", fingerprint, err)
	}
	return true, nil
}

// saveCache stores payload under fingerprint. A concurrent writer that got
// there first is not an error.
func (h *Handlers) saveCache(ctx context.Context, op domain.Operation, fingerprint string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := h.repo.SaveCached(ctx, domain.CacheEntry{
		Fingerprint: fingerprint,
		Operation:   op,
		Payload:     payload,
		CreatedAt:   h.cfg.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (h *Handlers) appendHistory(ctx context.Context, op domain.Operation, input string, output []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := h.repo.AppendHistory(ctx, domain.HistoryEntry{
		Operation: op,
		Input:     input,
		Output:    string(output),
		CreatedAt: h.cfg.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// persist writes the cache entry and then the history record.
func (h *Handlers) persist(ctx context.Context, op domain.Operation, fingerprint, input string, result any) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode %s result: %w", op, err)
	}
	if err := h.saveCache(ctx, op, fingerprint, payload); err != nil {
		return err
	}
	return h.appendHistory(ctx, op, input, payload)
}

// recordHit appends history for a result served from the cache.
func (h *Handlers) recordHit(ctx context.Context, op domain.Operation, input string, result any) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode %s result: %w", op, err)
	}
	return h.appendHistory(ctx, op, input, payload)
}
