package handler

import (
	"context"
	"strings"

	"github.com/valpere/tlumacz/internal/cachekey"
	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/interpret"
	"github.com/valpere/tlumacz/internal/retry"
)

// TranslateWord returns ranked translations of a single word. Unparseable
// provider responses are retried per the configured policy.
func (h *Handlers) TranslateWord(ctx context.Context, req domain.TranslateWordRequest) (*domain.TranslationResult, error) {
	if err := h.validator.TranslateWord(req); err != nil {
		return nil, err
	}

	source, err := h.resolver.Resolve(ctx, req.Word, req.SourceLang)
	if err != nil {
		return nil, err
	}
	target := req.TargetLang
	if target == "" {
		target = source.Other()
	}
	word := strings.TrimSpace(req.Word)
	fp := cachekey.Word(word, source, target)

	if req.UseCache {
		var cached domain.TranslationResult
		hit, err := h.lookupJSON(ctx, fp, &cached)
		if err != nil {
			return nil, err
		}
		if hit {
			if err := h.recordHit(ctx, domain.OpTranslateWord, word, &cached); err != nil {
				return nil, err
			}
			return &cached, nil
		}
	}

	name := h.llm.Name()
	candidates, err := retry.Do(ctx, h.cfg.Retry, name, func(ctx context.Context) ([]domain.TranslationCandidate, error) {
		raw, err := h.llm.TranslateWord(ctx, word, source, target)
		if err != nil {
			return nil, domain.AsExternal(name, "word translation failed", err)
		}
		return interpret.Translations(name, raw)
	})
	if err != nil {
		return nil, err
	}

	// Phonetic transcriptions describe English pronunciation and are only
	// meaningful when translating into English.
	if target != domain.English || source == domain.English {
		for i := range candidates {
			candidates[i].Phonetic = nil
		}
	}

	result := &domain.TranslationResult{
		SourceLang:   source,
		TargetLang:   target,
		Word:         word,
		Translations: candidates,
	}
	if err := h.persist(ctx, domain.OpTranslateWord, fp, word, result); err != nil {
		return nil, err
	}
	return result, nil
}
