// Package interpret turns raw provider responses into typed results.
//
// Every structured payload passes the same boundary: artifact stripping,
// strict JSON decoding, validation against an embedded JSON Schema, then a
// typed unmarshal and semantic checks. Any failure is an ExternalServiceError
// wrapping domain.ErrMalformedResponse and carrying a bounded excerpt of the
// offending payload.
package interpret

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/postprocess"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const (
	translationSchema = "translation.schema.json"
	grammarSchema     = "grammar.schema.json"
	detectionSchema   = "detection.schema.json"
)

var (
	compileOnce     sync.Once
	compiledSchemas map[string]*jsonschema.Schema
	compileErr      error
)

// Detection is an interpreted detect-language response.
type Detection struct {
	Language   string
	Confidence int
}

// GrammarReview is an interpreted review-grammar response. Issues and
// Suggestions are never nil.
type GrammarReview struct {
	Issues        []domain.GrammarIssue
	Suggestions   []domain.VocabularySuggestion
	CorrectedText *string
}

type rawCandidate struct {
	Rank         float64  `json:"rank"`
	Word         string   `json:"word"`
	PartOfSpeech string   `json:"part_of_speech"`
	Countability *string  `json:"countability"`
	Phonetic     *string  `json:"phonetic"`
	Examples     []string `json:"examples"`
}

type rawSuggestion struct {
	Original  string  `json:"original"`
	Suggested string  `json:"suggested"`
	Context   *string `json:"context"`
}

// Translations interprets a translate-word response from service. Candidates
// are returned sorted by rank; ranks must read 1, 2, 3, ... after sorting.
func Translations(service, raw string) ([]domain.TranslationCandidate, error) {
	var payload struct {
		Translations []rawCandidate `json:"translations"`
	}
	if err := decode(translationSchema, raw, &payload); err != nil {
		return nil, malformed(service, "translation", raw, err)
	}

	candidates := make([]domain.TranslationCandidate, 0, len(payload.Translations))
	for i, rc := range payload.Translations {
		if rc.Rank != math.Trunc(rc.Rank) {
			return nil, malformed(service, "translation", raw, fmt.Errorf("translations[%d]: rank %v is not an integer", i, rc.Rank))
		}
		pos, err := domain.ParsePartOfSpeech(rc.PartOfSpeech)
		if err != nil {
			return nil, malformed(service, "translation", raw, fmt.Errorf("translations[%d]: %w", i, err))
		}
		word := strings.TrimSpace(rc.Word)
		if word == "" {
			return nil, malformed(service, "translation", raw, fmt.Errorf("translations[%d]: word is blank", i))
		}
		examples := rc.Examples
		if examples == nil {
			examples = []string{}
		}
		candidates = append(candidates, domain.TranslationCandidate{
			Rank:         int(rc.Rank),
			Word:         word,
			PartOfSpeech: pos,
			Countability: rc.Countability,
			Phonetic:     rc.Phonetic,
			Examples:     examples,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rank < candidates[j].Rank
	})
	for i, c := range candidates {
		if c.Rank != i+1 {
			return nil, malformed(service, "translation", raw, fmt.Errorf("ranks must be consecutive from 1, found %d at position %d", c.Rank, i+1))
		}
	}
	return candidates, nil
}

// Grammar interprets a review-grammar response from service. Absent or null
// issue and suggestion arrays mean "nothing found".
func Grammar(service, raw string) (GrammarReview, error) {
	var payload struct {
		Issues        []domain.GrammarIssue `json:"issues"`
		Suggestions   []rawSuggestion       `json:"suggestions"`
		CorrectedText *string               `json:"corrected_text"`
	}
	if err := decode(grammarSchema, raw, &payload); err != nil {
		return GrammarReview{}, malformed(service, "grammar review", raw, err)
	}

	review := GrammarReview{
		Issues:        payload.Issues,
		Suggestions:   make([]domain.VocabularySuggestion, 0, len(payload.Suggestions)),
		CorrectedText: payload.CorrectedText,
	}
	if review.Issues == nil {
		review.Issues = []domain.GrammarIssue{}
	}
	for _, s := range payload.Suggestions {
		vs := domain.VocabularySuggestion{Original: s.Original, Suggested: s.Suggested}
		if s.Context != nil {
			vs.Context = *s.Context
		}
		review.Suggestions = append(review.Suggestions, vs)
	}
	if review.CorrectedText != nil && strings.TrimSpace(*review.CorrectedText) == "" {
		review.CorrectedText = nil
	}
	return review, nil
}

// DetectedLanguage interprets a detect-language response from service.
// Fractional confidences are truncated.
func DetectedLanguage(service, raw string) (Detection, error) {
	var payload struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	}
	if err := decode(detectionSchema, raw, &payload); err != nil {
		return Detection{}, malformed(service, "language detection", raw, err)
	}
	return Detection{
		Language:   strings.TrimSpace(payload.Language),
		Confidence: int(payload.Confidence),
	}, nil
}

// Text cleans a free-text translation. An empty result is malformed.
func Text(service, raw string) (string, error) {
	text := postprocess.Text(raw)
	if text == "" {
		return "", malformed(service, "text translation", raw, errors.New("translation is empty"))
	}
	return text, nil
}

func decode(schemaName, raw string, out any) error {
	// A clean payload is parsed as is; artifact stripping would otherwise
	// cut into string values that contain fences or tags.
	value, err := decodeStrictJSON([]byte(raw))
	if err != nil {
		value, err = decodeStrictJSON([]byte(postprocess.JSON(raw)))
		if err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	}

	schema, err := loadSchema(schemaName)
	if err != nil {
		return err
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("normalize JSON: %w", err)
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func malformed(service, what, raw string, err error) error {
	return &domain.ExternalServiceError{
		Service: service,
		Message: "could not interpret " + what + " response",
		Excerpt: domain.Excerpt(raw),
		Err:     fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err),
	}
}

func loadSchema(name string) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		names := []string{translationSchema, grammarSchema, detectionSchema}
		for _, n := range names {
			data, err := schemaFS.ReadFile("schemas/" + n)
			if err != nil {
				compileErr = fmt.Errorf("read schema %s: %w", n, err)
				return
			}
			if err := compiler.AddResource(n, bytes.NewReader(data)); err != nil {
				compileErr = fmt.Errorf("add schema resource %s: %w", n, err)
				return
			}
		}

		compiled := make(map[string]*jsonschema.Schema, len(names))
		for _, n := range names {
			s, err := compiler.Compile(n)
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", n, err)
				return
			}
			compiled[n] = s
		}
		compiledSchemas = compiled
	})

	if compileErr != nil {
		return nil, compileErr
	}
	s, ok := compiledSchemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return s, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("payload contains trailing content")
	}
	return value, nil
}
