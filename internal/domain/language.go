package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the two languages the translator works with.
// The zero value means "not specified".
type Language string

const (
	Polish  Language = "Polish"
	English Language = "English"
)

var languageAliases = map[string]Language{
	"polish":    Polish,
	"polski":    Polish,
	"english":   English,
	"angielski": English,
}

// ParseLanguage accepts a language name ("Polish", "english", "polski") or an
// ISO 639 code ("pl", "en", "pol") and returns the matching supported language.
func ParseLanguage(raw string) (Language, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("language is empty")
	}
	if lang, ok := languageAliases[s]; ok {
		return lang, nil
	}
	if tag, err := language.Parse(s); err == nil {
		if lang, ok := LanguageFromTag(tag); ok {
			return lang, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", raw)
}

// LanguageFromTag maps a BCP 47 tag onto a supported language.
func LanguageFromTag(tag language.Tag) (Language, bool) {
	base, _ := tag.Base()
	switch base {
	case polishBase:
		return Polish, true
	case englishBase:
		return English, true
	}
	return "", false
}

var (
	polishBase, _  = language.Polish.Base()
	englishBase, _ = language.English.Base()
)

// IsSupported reports whether l is Polish or English.
func (l Language) IsSupported() bool {
	return l == Polish || l == English
}

// Other returns the opposite supported language, or "" for an unsupported value.
func (l Language) Other() Language {
	switch l {
	case Polish:
		return English
	case English:
		return Polish
	}
	return ""
}

// Tag returns the BCP 47 tag of l.
func (l Language) Tag() language.Tag {
	if l == Polish {
		return language.Polish
	}
	return language.English
}

func (l Language) String() string { return string(l) }

// UnmarshalJSON accepts any alias ParseLanguage does. Unknown names are kept
// verbatim so validation can report them.
func (l *Language) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = LenientLanguage(raw)
	return nil
}

// LenientLanguage resolves raw like ParseLanguage but returns unknown input
// unchanged instead of failing. Empty input stays empty.
func LenientLanguage(raw string) Language {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if lang, err := ParseLanguage(raw); err == nil {
		return lang
	}
	return Language(raw)
}
