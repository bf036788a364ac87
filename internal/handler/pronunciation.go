package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valpere/tlumacz/internal/cachekey"
	"github.com/valpere/tlumacz/internal/domain"
)

// PlayPronunciation speaks text aloud. The generated audio is what gets
// cached; the part of speech only varies the fingerprint and the prompt.
func (h *Handlers) PlayPronunciation(ctx context.Context, req domain.PlayPronunciationRequest) (*domain.PronunciationResult, error) {
	if err := h.validator.PlayPronunciation(req); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	fp := cachekey.Pronunciation(text, req.PartOfSpeech)
	result := &domain.PronunciationResult{Text: text, PartOfSpeech: req.PartOfSpeech}

	if req.UseCache {
		audio, hit, err := h.lookup(ctx, fp)
		if err != nil {
			return nil, err
		}
		if hit && len(audio) > 0 {
			if err := h.play(ctx, audio); err != nil {
				return nil, err
			}
			result.Played = true
			if err := h.recordHit(ctx, domain.OpPlayPronunciation, text, result); err != nil {
				return nil, err
			}
			return result, nil
		}
	}

	if h.tts == nil {
		return nil, &domain.ExternalServiceError{
			Service: "tts",
			Message: "no speech synthesizer",
			Err:     domain.ErrNotConfigured,
		}
	}
	name := h.tts.Name()
	audio, err := h.tts.GenerateSpeech(ctx, text, req.PartOfSpeech)
	if err != nil {
		return nil, domain.AsExternal(name, "speech generation failed", err)
	}
	if len(audio) == 0 {
		return nil, &domain.ExternalServiceError{
			Service: name,
			Message: "speech generation returned no audio",
			Err:     domain.ErrMalformedResponse,
		}
	}

	if err := h.saveCache(ctx, domain.OpPlayPronunciation, fp, audio); err != nil {
		return nil, err
	}
	if err := h.play(ctx, audio); err != nil {
		return nil, err
	}
	result.Played = true

	output, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", domain.OpPlayPronunciation, err)
	}
	if err := h.appendHistory(ctx, domain.OpPlayPronunciation, text, output); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Handlers) play(ctx context.Context, audio []byte) error {
	if err := h.player.Play(ctx, audio); err != nil {
		return fmt.Errorf("failed to play audio: %w", err)
	}
	return nil
}
