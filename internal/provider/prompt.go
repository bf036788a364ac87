// Package provider composes the language model capability from configured
// backends and holds the prompts shared by the LLM clients.
package provider

import (
	"fmt"
	"strings"

	"github.com/valpere/tlumacz/internal/domain"
)

// Prompt is a system/user message pair.
type Prompt struct {
	System string
	User   string
	// JSON asks the backend for a JSON object response.
	JSON bool
}

const partsOfSpeech = "noun, pronoun, verb, adjective, adverb, preposition, conjunction, interjection"

// WordPrompt asks for ranked translations of a single word as
// {"translations":[...]}.
func WordPrompt(word string, source, target domain.Language) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a %s-%s dictionary. Translate the %s word the user gives you into %s.\n", source, target, source, target)
	sb.WriteString("List the common translations, most common first, and respond with a JSON object only:\n")
	sb.WriteString(`{"translations":[{"rank":1,"word":"...","part_of_speech":"...","countability":"countable|uncountable|null","phonetic":"...","examples":["..."]}]}`)
	sb.WriteString("\nRules:\n")
	sb.WriteString("- rank starts at 1 and increases by one for each translation.\n")
	fmt.Fprintf(&sb, "- part_of_speech is one of: %s.\n", partsOfSpeech)
	sb.WriteString("- countability is only given for nouns; use null otherwise.\n")
	if target == domain.English && source != domain.English {
		sb.WriteString("- phonetic is the CMU Arpabet transcription of the English word, for example \"K AE1 T\" for cat.\n")
	} else {
		sb.WriteString("- phonetic is always null.\n")
	}
	fmt.Fprintf(&sb, "- examples are one or two short %s sentences using the translation.", target)

	return Prompt{System: sb.String(), User: word, JSON: true}
}

// TextPrompt asks for a plain translation of free text. An empty source lets
// the model detect it.
func TextPrompt(text string, source, target domain.Language) Prompt {
	from := "the detected language"
	if source != "" {
		from = source.String()
	}
	to := target.String()
	if target == "" {
		to = "English if the text is Polish, otherwise Polish"
	}

	system := fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s.\n", from, to) +
		"Only respond with the translation, nothing else. No explanations, no quotes, just the translation."
	return Prompt{System: system, User: text}
}

// GrammarPrompt asks for a review of English text as
// {"issues":[...],"suggestions":[...],"corrected_text":...}.
func GrammarPrompt(text string) Prompt {
	system := "You are an English teacher reviewing a learner's text. Find grammar mistakes and suggest more natural vocabulary.\n" +
		"Respond with a JSON object only:\n" +
		`{"issues":[{"issue":"...","correction":"...","explanation":"..."}],"suggestions":[{"original":"...","suggested":"...","context":"..."}],"corrected_text":"..."}` + "\n" +
		"Use empty arrays when there is nothing to report, and set corrected_text to null when the text is already correct."
	return Prompt{System: system, User: text, JSON: true}
}

// DetectPrompt asks for the language of text as
// {"language":"...","confidence":0-100}.
func DetectPrompt(text string) Prompt {
	system := "Identify the language of the text the user gives you.\n" +
		`Respond with a JSON object only: {"language":"<English name of the language>","confidence":<integer 0-100>}`
	return Prompt{System: system, User: text, JSON: true}
}

// SpeechInstructions steers a TTS voice towards the intended reading of a
// heteronym such as "lead" or "record".
func SpeechInstructions(pos domain.PartOfSpeech) string {
	if pos == "" {
		return "Speak clearly at a moderate pace, as a pronunciation example for a language learner."
	}
	return fmt.Sprintf("Speak clearly at a moderate pace, as a pronunciation example for a language learner. Pronounce the word as a %s.", pos)
}
