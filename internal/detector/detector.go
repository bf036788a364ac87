// Package detector is an offline language detector backed by lingua-go.
package detector

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"

	lingua "github.com/pemistahl/lingua-go"
)

// Detector answers detect-language requests without a network call. The
// lingua models are loaded on first use.
type Detector struct {
	once      sync.Once
	detector  lingua.LanguageDetector
	languages []lingua.Language
}

// New returns a detector over all languages lingua knows, so that text in an
// unsupported language is reported as such rather than forced into Polish or
// English.
func New() *Detector {
	return &Detector{}
}

// NewFor restricts detection to languages.
func NewFor(languages ...lingua.Language) *Detector {
	return &Detector{languages: languages}
}

func (d *Detector) Name() string {
	return "lingua"
}

func (d *Detector) get() lingua.LanguageDetector {
	d.once.Do(func() {
		b := lingua.NewLanguageDetectorBuilder()
		if len(d.languages) >= 2 {
			d.detector = b.FromLanguages(d.languages...).Build()
			return
		}
		d.detector = b.FromAllLanguages().Build()
	})
	return d.detector
}

// Detect returns the most likely language of text and its confidence in
// percent.
func (d *Detector) Detect(text string) (lingua.Language, int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return lingua.Unknown, 0, false
	}
	values := d.get().ComputeLanguageConfidenceValues(text)
	if len(values) == 0 {
		return lingua.Unknown, 0, false
	}
	top := values[0]
	return top.Language(), int(math.Round(top.Value() * 100)), true
}

// DetectLanguage implements the detect-language capability, answering with
// {"language": ..., "confidence": 0-100}.
func (d *Detector) DetectLanguage(_ context.Context, text string) (string, error) {
	lang, confidence, ok := d.Detect(text)
	if !ok {
		return "", errors.New("no language could be detected")
	}
	out, err := json.Marshal(struct {
		Language   string `json:"language"`
		Confidence int    `json:"confidence"`
	}{lang.String(), confidence})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
