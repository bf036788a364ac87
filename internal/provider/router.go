package provider

import (
	"context"

	"github.com/valpere/tlumacz/internal/domain"
)

// TextTranslator serves translate-text.
type TextTranslator interface {
	Name() string
	TranslateText(ctx context.Context, text string, source, target domain.Language) (string, error)
}

// Detector serves detect-language.
type Detector interface {
	Name() string
	DetectLanguage(ctx context.Context, text string) (string, error)
}

// Router is a domain.LanguageModel that sends text translation and language
// detection to dedicated backends when they are configured, and everything
// else to the LLM.
type Router struct {
	llm      domain.LanguageModel
	text     TextTranslator
	detector Detector
}

// NewRouter returns a Router. Nil text or detector fall back to llm.
func NewRouter(llm domain.LanguageModel, text TextTranslator, detector Detector) *Router {
	if text == nil {
		text = llm
	}
	if detector == nil {
		detector = llm
	}
	return &Router{llm: llm, text: text, detector: detector}
}

var _ domain.LanguageModel = (*Router)(nil)

func (r *Router) Name() string {
	return r.llm.Name()
}

func (r *Router) TranslateWord(ctx context.Context, word string, source, target domain.Language) (string, error) {
	raw, err := r.llm.TranslateWord(ctx, word, source, target)
	return raw, domain.AsExternal(r.llm.Name(), "word translation failed", err)
}

func (r *Router) TranslateText(ctx context.Context, text string, source, target domain.Language) (string, error) {
	raw, err := r.text.TranslateText(ctx, text, source, target)
	return raw, domain.AsExternal(r.text.Name(), "text translation failed", err)
}

func (r *Router) ReviewGrammar(ctx context.Context, text string) (string, error) {
	raw, err := r.llm.ReviewGrammar(ctx, text)
	return raw, domain.AsExternal(r.llm.Name(), "grammar review failed", err)
}

func (r *Router) DetectLanguage(ctx context.Context, text string) (string, error) {
	raw, err := r.detector.DetectLanguage(ctx, text)
	return raw, domain.AsExternal(r.detector.Name(), "language detection failed", err)
}

// TextBackend reports which backend serves translate-text.
func (r *Router) TextBackend() string { return r.text.Name() }

// DetectionBackend reports which backend serves detect-language.
func (r *Router) DetectionBackend() string { return r.detector.Name() }
