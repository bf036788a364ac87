package domain

import (
	"fmt"
	"strings"
	"time"
)

// Operation discriminates the user-facing operations in cache and history rows.
type Operation string

const (
	OpTranslateWord     Operation = "translate_word"
	OpTranslateText     Operation = "translate_text"
	OpReviewGrammar     Operation = "review_grammar"
	OpPlayPronunciation Operation = "play_pronunciation"
	OpGetHistory        Operation = "get_history"
)

// PartOfSpeech is the closed set of word classes a translation candidate can carry.
type PartOfSpeech string

const (
	Noun         PartOfSpeech = "noun"
	Pronoun      PartOfSpeech = "pronoun"
	Verb         PartOfSpeech = "verb"
	Adjective    PartOfSpeech = "adjective"
	Adverb       PartOfSpeech = "adverb"
	Preposition  PartOfSpeech = "preposition"
	Conjunction  PartOfSpeech = "conjunction"
	Interjection PartOfSpeech = "interjection"
)

// PartsOfSpeech lists every valid PartOfSpeech in display order.
var PartsOfSpeech = []PartOfSpeech{
	Noun, Pronoun, Verb, Adjective, Adverb, Preposition, Conjunction, Interjection,
}

// ParsePartOfSpeech normalizes raw and checks it against the closed set.
func ParsePartOfSpeech(raw string) (PartOfSpeech, error) {
	pos := PartOfSpeech(strings.ToLower(strings.TrimSpace(raw)))
	if pos.IsValid() {
		return pos, nil
	}
	return "", fmt.Errorf("unknown part of speech %q", raw)
}

func (p PartOfSpeech) IsValid() bool {
	for _, v := range PartsOfSpeech {
		if p == v {
			return true
		}
	}
	return false
}

// TranslateWordRequest asks for ranked translations of a single word.
type TranslateWordRequest struct {
	Word       string   `json:"word"`
	SourceLang Language `json:"source_lang"`
	TargetLang Language `json:"target_lang"`
	UseCache   bool     `json:"use_cache"`
}

// TranslateTextRequest asks for a translation of free text. SourceLang may be
// empty, in which case it is detected; TargetLang may be empty, in which case
// the other supported language is implied.
type TranslateTextRequest struct {
	Text       string   `json:"text"`
	SourceLang Language `json:"source_lang,omitempty"`
	TargetLang Language `json:"target_lang,omitempty"`
	UseCache   bool     `json:"use_cache"`
}

// ReviewGrammarRequest asks for a grammar and vocabulary review of English text.
type ReviewGrammarRequest struct {
	Text     string `json:"text"`
	UseCache bool   `json:"use_cache"`
}

// PlayPronunciationRequest asks for text to be spoken aloud.
type PlayPronunciationRequest struct {
	Text         string       `json:"text"`
	PartOfSpeech PartOfSpeech `json:"part_of_speech,omitempty"`
	UseCache     bool         `json:"use_cache"`
}

// GetHistoryRequest asks for the most recent history entries.
type GetHistoryRequest struct {
	Limit int `json:"limit"`
}

// TranslationCandidate is one ranked translation option.
type TranslationCandidate struct {
	Rank         int          `json:"rank"`
	Word         string       `json:"word"`
	PartOfSpeech PartOfSpeech `json:"part_of_speech"`
	Countability *string      `json:"countability"`
	Phonetic     *string      `json:"phonetic"`
	Examples     []string     `json:"examples"`
}

type TranslationResult struct {
	SourceLang   Language               `json:"source_lang"`
	TargetLang   Language               `json:"target_lang"`
	Word         string                 `json:"word"`
	Translations []TranslationCandidate `json:"translations"`
}

type TextTranslationResult struct {
	SourceLang     Language `json:"source_lang"`
	TargetLang     Language `json:"target_lang"`
	Text           string   `json:"text"`
	TranslatedText string   `json:"translated_text"`
}

type GrammarIssue struct {
	Issue       string `json:"issue"`
	Correction  string `json:"correction"`
	Explanation string `json:"explanation"`
}

type VocabularySuggestion struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Context   string `json:"context"`
}

// GrammarReviewResult with no issues and no suggestions means the text is correct.
type GrammarReviewResult struct {
	Text          string                 `json:"text"`
	Issues        []GrammarIssue         `json:"issues"`
	Suggestions   []VocabularySuggestion `json:"suggestions"`
	CorrectedText *string                `json:"corrected_text,omitempty"`
}

// IsCorrect reports whether the review found nothing to change.
func (r *GrammarReviewResult) IsCorrect() bool {
	return len(r.Issues) == 0 && len(r.Suggestions) == 0
}

type PronunciationResult struct {
	Text         string       `json:"text"`
	PartOfSpeech PartOfSpeech `json:"part_of_speech,omitempty"`
	Played       bool         `json:"played"`
}

// CacheEntry is one persisted provider result. Payload holds serialized JSON
// for structured results and raw audio for pronunciations.
type CacheEntry struct {
	Fingerprint string
	Operation   Operation
	Payload     []byte
	CreatedAt   time.Time
}

// HistoryEntry is one append-only record of an operation the user performed.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Operation Operation `json:"operation"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}
