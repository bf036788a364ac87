package handler

import (
	"context"
	"strings"

	"github.com/valpere/tlumacz/internal/cachekey"
	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/interpret"
)

// ReviewGrammar reviews English text for grammar issues and vocabulary
// improvements. Text detected as any other language is rejected.
func (h *Handlers) ReviewGrammar(ctx context.Context, req domain.ReviewGrammarRequest) (*domain.GrammarReviewResult, error) {
	if err := h.validator.ReviewGrammar(req); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if err := h.resolver.RequireEnglish(ctx, text); err != nil {
		return nil, err
	}
	fp := cachekey.Grammar(text)

	if req.UseCache {
		var cached domain.GrammarReviewResult
		hit, err := h.lookupJSON(ctx, fp, &cached)
		if err != nil {
			return nil, err
		}
		if hit {
			if err := h.recordHit(ctx, domain.OpReviewGrammar, text, &cached); err != nil {
				return nil, err
			}
			return &cached, nil
		}
	}

	name := h.llm.Name()
	raw, err := h.llm.ReviewGrammar(ctx, text)
	if err != nil {
		return nil, domain.AsExternal(name, "grammar review failed", err)
	}
	review, err := interpret.Grammar(name, raw)
	if err != nil {
		return nil, err
	}

	result := &domain.GrammarReviewResult{
		Text:          text,
		Issues:        review.Issues,
		Suggestions:   review.Suggestions,
		CorrectedText: review.CorrectedText,
	}
	if err := h.persist(ctx, domain.OpReviewGrammar, fp, text, result); err != nil {
		return nil, err
	}
	return result, nil
}
