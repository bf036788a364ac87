package handler

import (
	"context"
	"strings"

	"github.com/valpere/tlumacz/internal/cachekey"
	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/interpret"
	"github.com/valpere/tlumacz/internal/validator"
)

// TranslateText translates free text, detecting the source language when it
// is not given and implying the target from it.
func (h *Handlers) TranslateText(ctx context.Context, req domain.TranslateTextRequest) (*domain.TextTranslationResult, error) {
	if err := h.validator.TranslateText(req); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	source, err := h.resolver.Resolve(ctx, text, req.SourceLang)
	if err != nil {
		return nil, err
	}
	target := req.TargetLang
	if target == "" {
		target = source.Other()
	}
	if source == target {
		return nil, domain.NewValidationError(validator.RuleLanguagesMustDiffer,
			"text is already in %s; choose the other language as target", source)
	}
	fp := cachekey.Text(text, source, target)

	if req.UseCache {
		var cached domain.TextTranslationResult
		hit, err := h.lookupJSON(ctx, fp, &cached)
		if err != nil {
			return nil, err
		}
		if hit {
			if err := h.recordHit(ctx, domain.OpTranslateText, text, &cached); err != nil {
				return nil, err
			}
			return &cached, nil
		}
	}

	name := h.textService()
	raw, err := h.llm.TranslateText(ctx, text, source, target)
	if err != nil {
		return nil, domain.AsExternal(name, "text translation failed", err)
	}
	translated, err := interpret.Text(name, raw)
	if err != nil {
		return nil, err
	}

	result := &domain.TextTranslationResult{
		SourceLang:     source,
		TargetLang:     target,
		Text:           text,
		TranslatedText: translated,
	}
	if err := h.persist(ctx, domain.OpTranslateText, fp, text, result); err != nil {
		return nil, err
	}
	return result, nil
}

// textService names the backend that serves translate-text, which a router
// may send somewhere other than the LLM.
func (h *Handlers) textService() string {
	if r, ok := h.llm.(interface{ TextBackend() string }); ok {
		return r.TextBackend()
	}
	return h.llm.Name()
}
