// Package langresolve decides the effective source language of a request.
package langresolve

import (
	"context"

	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/interpret"
)

// DefaultMinConfidence is the lowest detection confidence accepted without an
// explicit language.
const DefaultMinConfidence = 80

// Rules carried by the ValidationErrors this package returns.
const (
	RuleLowConfidence       = "language_detection_low_confidence"
	RuleUnsupportedDetected = "detected_language_unsupported"
	RuleNotEnglish          = "text_not_english"
)

// Detector is the part of domain.LanguageModel the resolver needs.
type Detector interface {
	Name() string
	DetectLanguage(ctx context.Context, text string) (string, error)
}

// Resolver resolves source languages, detecting them when not given.
type Resolver struct {
	detector      Detector
	minConfidence int
}

// New returns a Resolver that rejects detections below minConfidence (0-100).
func New(detector Detector, minConfidence int) *Resolver {
	return &Resolver{detector: detector, minConfidence: minConfidence}
}

// Resolve returns explicit unchanged when it is set; otherwise it detects the
// language of text.
func (r *Resolver) Resolve(ctx context.Context, text string, explicit domain.Language) (domain.Language, error) {
	if explicit != "" {
		return explicit, nil
	}
	det, err := r.detect(ctx, text)
	if err != nil {
		return "", err
	}
	lang, err := domain.ParseLanguage(det.Language)
	if err != nil {
		return "", domain.NewValidationError(RuleUnsupportedDetected,
			"detected language %q is not supported; only Polish and English are", det.Language)
	}
	return lang, nil
}

// RequireEnglish fails unless text is detected as English with enough
// confidence. The error names the detected language.
func (r *Resolver) RequireEnglish(ctx context.Context, text string) error {
	det, err := r.detect(ctx, text)
	if err != nil {
		return err
	}
	lang, err := domain.ParseLanguage(det.Language)
	if err != nil || lang != domain.English {
		name := det.Language
		if err == nil {
			name = lang.String()
		}
		return domain.NewValidationError(RuleNotEnglish,
			"grammar review supports English text only; detected %s", name)
	}
	return nil
}

func (r *Resolver) detect(ctx context.Context, text string) (interpret.Detection, error) {
	raw, err := r.detector.DetectLanguage(ctx, text)
	if err != nil {
		return interpret.Detection{}, domain.AsExternal(r.detector.Name(), "language detection failed", err)
	}
	det, err := interpret.DetectedLanguage(r.detector.Name(), raw)
	if err != nil {
		return interpret.Detection{}, err
	}
	if det.Confidence < r.minConfidence {
		return interpret.Detection{}, domain.NewValidationError(RuleLowConfidence,
			"could not detect the language reliably (%s at %d%% confidence, need %d%%); specify the source language explicitly",
			det.Language, det.Confidence, r.minConfidence)
	}
	return det, nil
}
