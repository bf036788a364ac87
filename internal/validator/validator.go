// Package validator checks operation requests before any I/O is performed.
//
// Every rule of a request is evaluated and all violations are reported
// together in a single *domain.ValidationError.
package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/valpere/tlumacz/internal/domain"
)

// Rule identifiers carried by domain.Violation.
const (
	RuleWordRequired        = "word_required"
	RuleWordTooLong         = "word_too_long"
	RuleTextRequired        = "text_required"
	RuleTextTooLong         = "text_too_long"
	RuleSourceRequired      = "source_language_required"
	RuleSourceUnsupported   = "source_language_unsupported"
	RuleTargetUnsupported   = "target_language_unsupported"
	RuleLanguagesMustDiffer = "languages_must_differ"
	RulePartOfSpeech        = "part_of_speech_invalid"
	RuleLimitRange          = "limit_out_of_range"
)

// Limits bounds request sizes.
type Limits struct {
	MaxWordLength   int
	MaxTextLength   int
	MaxHistoryLimit int
}

// DefaultLimits returns the limits used when no configuration overrides them.
func DefaultLimits() Limits {
	return Limits{
		MaxWordLength:   100,
		MaxTextLength:   5000,
		MaxHistoryLimit: 1000,
	}
}

// Validator applies the per-operation rules. It holds no mutable state.
type Validator struct {
	limits Limits
}

func New(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// TranslateWord requires an explicit source language: single words are too
// short for reliable detection. An empty target is implied from the source.
func (v *Validator) TranslateWord(req domain.TranslateWordRequest) error {
	var c collector
	c.text(req.Word, v.limits.MaxWordLength, RuleWordRequired, RuleWordTooLong, "word")

	switch {
	case req.SourceLang == "":
		c.add(RuleSourceRequired, "source language must be specified explicitly (Polish or English); auto-detection is not supported for single words")
	case !req.SourceLang.IsSupported():
		c.add(RuleSourceUnsupported, fmt.Sprintf("source language must be Polish or English, got %q", req.SourceLang))
	}
	if req.TargetLang != "" && !req.TargetLang.IsSupported() {
		c.add(RuleTargetUnsupported, fmt.Sprintf("target language must be Polish or English, got %q", req.TargetLang))
	}
	if req.SourceLang.IsSupported() && req.SourceLang == req.TargetLang {
		c.add(RuleLanguagesMustDiffer, "source and target languages must differ")
	}
	return c.err()
}

// TranslateText accepts an empty source (detected later) and an empty target
// (implied from the source).
func (v *Validator) TranslateText(req domain.TranslateTextRequest) error {
	var c collector
	c.text(req.Text, v.limits.MaxTextLength, RuleTextRequired, RuleTextTooLong, "text")

	if req.SourceLang != "" && !req.SourceLang.IsSupported() {
		c.add(RuleSourceUnsupported, fmt.Sprintf("source language must be Polish or English, got %q", req.SourceLang))
	}
	if req.TargetLang != "" && !req.TargetLang.IsSupported() {
		c.add(RuleTargetUnsupported, fmt.Sprintf("target language must be Polish or English, got %q", req.TargetLang))
	}
	return c.err()
}

func (v *Validator) ReviewGrammar(req domain.ReviewGrammarRequest) error {
	var c collector
	c.text(req.Text, v.limits.MaxTextLength, RuleTextRequired, RuleTextTooLong, "text")
	return c.err()
}

func (v *Validator) PlayPronunciation(req domain.PlayPronunciationRequest) error {
	var c collector
	c.text(req.Text, v.limits.MaxTextLength, RuleTextRequired, RuleTextTooLong, "text")

	if req.PartOfSpeech != "" && !req.PartOfSpeech.IsValid() {
		c.add(RulePartOfSpeech, fmt.Sprintf("part of speech must be one of %s, got %q", joinPOS(), req.PartOfSpeech))
	}
	return c.err()
}

func (v *Validator) GetHistory(req domain.GetHistoryRequest) error {
	var c collector
	if req.Limit < 1 || req.Limit > v.limits.MaxHistoryLimit {
		c.add(RuleLimitRange, fmt.Sprintf("limit must be between 1 and %d, got %d", v.limits.MaxHistoryLimit, req.Limit))
	}
	return c.err()
}

type collector struct {
	violations []domain.Violation
}

func (c *collector) add(rule, msg string) {
	c.violations = append(c.violations, domain.Violation{Rule: rule, Message: msg})
}

// text checks that s is non-blank and at most max characters long.
func (c *collector) text(s string, max int, requiredRule, lengthRule, field string) {
	if strings.TrimSpace(s) == "" {
		c.add(requiredRule, field+" must not be empty")
		return
	}
	if n := utf8.RuneCountInString(s); n > max {
		c.add(lengthRule, fmt.Sprintf("%s must be at most %d characters, got %d", field, max, n))
	}
}

func (c *collector) err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Violations: c.violations}
}

func joinPOS() string {
	names := make([]string, len(domain.PartsOfSpeech))
	for i, p := range domain.PartsOfSpeech {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
