// Package postprocess strips common LLM artifacts from provider output.
//
// Text is the cleaner for free-text translations; JSON isolates the JSON
// document inside a structured response before it is interpreted.
package postprocess

import (
	"regexp"
	"strings"
)

// Text removes reasoning blocks, a leading "Here is the translation:" style
// echo, and quotes wrapping the whole text.
func Text(text string) string {
	text = removeThinkingBlocks(text)
	text = removeInstructionEchoes(text)
	text = removeQuoteWrapping(text)
	return strings.TrimSpace(text)
}

// JSON returns the JSON object embedded in a structured response: reasoning
// blocks and Markdown code fences are removed and the text is cut to the span
// between the first '{' and the last '}'. Input without braces is returned
// trimmed so the parser can report it.
func JSON(text string) string {
	text = removeThinkingBlocks(text)
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return strings.TrimSpace(text)
	}
	return text[start : end+1]
}

// codeFenceRe captures the body of the first ``` or ```json fence.
var codeFenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// thinkingBlockRe lists each tag explicitly; RE2 has no backreferences.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// truncatedThinkingRe matches a reasoning block cut off before its closing tag.
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// echoPatterns are anchored at the start and require a colon, so ordinary
// sentences beginning with "Here is" survive.
var echoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)?[,.]?\s*here(?:'s| is)(?: the| your)? (?:translated |english |polish )?(?:translation|text)\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:translation|translated text)(?: to (?:english|polish))?\s*:`),
	regexp.MustCompile(`(?i)^(?:oto )?(?:tłumaczenie|przekład)\s*:`),
}

func removeInstructionEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// removeQuoteWrapping strips one matching pair of outer quotes:
//
//	"…"  '…'  «…»  „…"  "…"
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '„' && last == '”') || // Polish „…”
		(first == '“' && last == '”') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
