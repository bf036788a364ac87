package cachekey

import (
	"regexp"
	"testing"

	"github.com/valpere/tlumacz/internal/domain"
)

var hexRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestWord_Deterministic(t *testing.T) {
	a := Word("kot", domain.Polish, domain.English)
	b := Word("kot", domain.Polish, domain.English)

	if a != b {
		t.Errorf("fingerprints differ: %s vs %s", a, b)
	}
	if !hexRe.MatchString(a) {
		t.Errorf("expected 64 lowercase hex chars, got %q", a)
	}
}

func TestWord_LanguageCaseInsensitive(t *testing.T) {
	a := Word("kot", domain.Polish, domain.English)
	b := Word("kot", domain.Language("POLISH"), domain.Language("english"))

	if a != b {
		t.Error("expected language names to be compared case-insensitively")
	}
}

func TestWord_EachFieldMatters(t *testing.T) {
	base := Word("kot", domain.Polish, domain.English)

	tests := []struct {
		name string
		fp   string
	}{
		{"different word", Word("pies", domain.Polish, domain.English)},
		{"different source", Word("kot", domain.English, domain.English)},
		{"different target", Word("kot", domain.Polish, domain.Polish)},
		{"different case in word", Word("Kot", domain.Polish, domain.English)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fp == base {
				t.Errorf("expected fingerprint to change")
			}
		})
	}
}

func TestFingerprint_DelimiterCannotCollide(t *testing.T) {
	a := Fingerprint(domain.OpTranslateText, "a|b", "c")
	b := Fingerprint(domain.OpTranslateText, "a", "b|c")
	if a == b {
		t.Error("expected escaped delimiters to keep fields apart")
	}

	c := Fingerprint(domain.OpTranslateText, `a\`, "b")
	d := Fingerprint(domain.OpTranslateText, "a", `\b`)
	if c == d {
		t.Error("expected escaped backslashes to keep fields apart")
	}
}

func TestFingerprint_OperationMatters(t *testing.T) {
	if Word("kot", domain.Polish, domain.English) == Text("kot", domain.Polish, domain.English) {
		t.Error("expected word and text fingerprints to differ for the same fields")
	}
}

func TestPronunciation_PartOfSpeechMatters(t *testing.T) {
	if Pronunciation("lead", domain.Noun) == Pronunciation("lead", domain.Verb) {
		t.Error("expected part of speech to vary the fingerprint")
	}
	if Pronunciation("lead", "") == Pronunciation("lead", domain.Noun) {
		t.Error("expected missing part of speech to differ from noun")
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  kot  ", "kot"},
		{"\t\nżółw\t\n", "żółw"},
		{"z\u0307", "\u017c"}, // z + combining dot above composes to ż
		{"", ""},
	}

	for _, tt := range tests {
		result := NormalizeText(tt.input)
		if result != tt.expected {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
