package interpret

import (
	"errors"
	"strings"
	"testing"

	"github.com/valpere/tlumacz/internal/domain"
)

func TestTranslations(t *testing.T) {
	raw := "```json\n" + `{"translations":[
		{"rank":2,"word":"feline","part_of_speech":"Noun","countability":"countable","phonetic":null},
		{"rank":1,"word":"cat","part_of_speech":"noun","countability":"countable","phonetic":"K AE1 T","examples":["The cat sleeps."]}
	]}` + "\n```"

	got, err := Translations("openai", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Rank != 1 || got[0].Word != "cat" {
		t.Errorf("expected rank 1 cat first, got %+v", got[0])
	}
	if got[0].Phonetic == nil || *got[0].Phonetic != "K AE1 T" {
		t.Errorf("expected phonetic K AE1 T, got %v", got[0].Phonetic)
	}
	if got[1].PartOfSpeech != domain.Noun {
		t.Errorf("expected part of speech to be normalized, got %q", got[1].PartOfSpeech)
	}
	if got[1].Phonetic != nil {
		t.Errorf("expected null phonetic to stay nil, got %q", *got[1].Phonetic)
	}
	if got[1].Examples == nil || len(got[1].Examples) != 0 {
		t.Errorf("expected absent examples to default to an empty list, got %#v", got[1].Examples)
	}
}

func TestTranslations_ArtifactsInsideStrings(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		example string
	}{
		{
			name:    "code fence in example",
			raw:     `{"translations":[{"rank":1,"word":"code block","part_of_speech":"noun","examples":["Wrap it in ` + "```go```" + ` fences."]}]}`,
			example: "Wrap it in ```go``` fences.",
		},
		{
			name:    "think tag in example",
			raw:     `{"translations":[{"rank":1,"word":"tag","part_of_speech":"noun","examples":["Type <think> to open it."]}]}`,
			example: "Type <think> to open it.",
		},
		{
			name:    "fenced payload with backticks inside",
			raw:     "Sure:\n```json\n" + `{"translations":[{"rank":1,"word":"tick","part_of_speech":"noun","examples":["A ` + "`" + ` mark."]}]}` + "\n```",
			example: "A ` mark.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translations("openai", tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || len(got[0].Examples) != 1 || got[0].Examples[0] != tt.example {
				t.Errorf("examples = %+v, want [%q]", got, tt.example)
			}
		})
	}
}

func TestTranslations_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I think the answer is cat"},
		{"missing array", `{"words":[]}`},
		{"empty array", `{"translations":[]}`},
		{"missing word", `{"translations":[{"rank":1,"part_of_speech":"noun"}]}`},
		{"missing rank", `{"translations":[{"word":"cat","part_of_speech":"noun"}]}`},
		{"unknown part of speech", `{"translations":[{"rank":1,"word":"cat","part_of_speech":"article"}]}`},
		{"rank gap", `{"translations":[{"rank":1,"word":"a","part_of_speech":"noun"},{"rank":3,"word":"b","part_of_speech":"noun"}]}`},
		{"duplicate rank", `{"translations":[{"rank":1,"word":"a","part_of_speech":"noun"},{"rank":1,"word":"b","part_of_speech":"noun"}]}`},
		{"rank zero", `{"translations":[{"rank":0,"word":"a","part_of_speech":"noun"}]}`},
		{"trailing content", `{"translations":[{"rank":1,"word":"a","part_of_speech":"noun"}]} {"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Translations("openai", tt.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
			var ext *domain.ExternalServiceError
			if !errors.As(err, &ext) {
				t.Fatalf("expected ExternalServiceError, got %T", err)
			}
			if ext.Service != "openai" {
				t.Errorf("expected service openai, got %q", ext.Service)
			}
		})
	}
}

func TestTranslations_ExcerptIsBounded(t *testing.T) {
	raw := strings.Repeat("x", 1000)
	_, err := Translations("ollama", raw)

	var ext *domain.ExternalServiceError
	if !errors.As(err, &ext) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if n := len([]rune(ext.Excerpt)); n > domain.ExcerptLimit+3 {
		t.Errorf("expected bounded excerpt, got %d runes", n)
	}
	if strings.Contains(err.Error(), raw) {
		t.Error("expected the full payload to be kept out of the error message")
	}
}

func TestGrammar(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		wantIssues      int
		wantSuggestions int
		wantCorrected   bool
	}{
		{
			name:       "correct text",
			raw:        `{"issues":[],"suggestions":[]}`,
			wantIssues: 0,
		},
		{
			name: "arrays absent",
			raw:  `{}`,
		},
		{
			name: "arrays null",
			raw:  `{"issues":null,"suggestions":null,"corrected_text":null}`,
		},
		{
			name:            "issues and suggestions",
			raw:             `{"issues":[{"issue":"agreement","correction":"he goes","explanation":"third person"}],"suggestions":[{"original":"big","suggested":"large"}],"corrected_text":"He goes home."}`,
			wantIssues:      1,
			wantSuggestions: 1,
			wantCorrected:   true,
		},
		{
			name: "blank corrected text dropped",
			raw:  `{"corrected_text":"  "}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Grammar("openai", tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Issues == nil || got.Suggestions == nil {
				t.Fatal("expected non-nil lists")
			}
			if len(got.Issues) != tt.wantIssues {
				t.Errorf("expected %d issues, got %d", tt.wantIssues, len(got.Issues))
			}
			if len(got.Suggestions) != tt.wantSuggestions {
				t.Errorf("expected %d suggestions, got %d", tt.wantSuggestions, len(got.Suggestions))
			}
			if (got.CorrectedText != nil) != tt.wantCorrected {
				t.Errorf("corrected text presence = %v, want %v", got.CorrectedText != nil, tt.wantCorrected)
			}
		})
	}
}

func TestGrammar_MissingElementFieldFailsWhole(t *testing.T) {
	raw := `{"issues":[{"issue":"a","correction":"b","explanation":"c"},{"issue":"only"}]}`
	if _, err := Grammar("openai", raw); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestDetectedLanguage(t *testing.T) {
	got, err := DetectedLanguage("openai", `{"language":"Polish","confidence":95}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Language != "Polish" || got.Confidence != 95 {
		t.Errorf("unexpected detection: %+v", got)
	}

	got, err = DetectedLanguage("openai", `{"language":"English","confidence":87.9}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Confidence != 87 {
		t.Errorf("expected truncated confidence 87, got %d", got.Confidence)
	}
}

func TestDetectedLanguage_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing confidence", `{"language":"Polish"}`},
		{"missing language", `{"confidence":90}`},
		{"confidence out of range", `{"language":"Polish","confidence":140}`},
		{"confidence as string", `{"language":"Polish","confidence":"high"}`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DetectedLanguage("openai", tt.raw); !errors.Is(err, domain.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestText(t *testing.T) {
	got, err := Text("openai", "Here is the translation: \"Good morning\"")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Good morning" {
		t.Errorf("expected cleaned text, got %q", got)
	}

	if _, err := Text("openai", "<think>hmm</think>  "); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse for empty text, got %v", err)
	}
}
