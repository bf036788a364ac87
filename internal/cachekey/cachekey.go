// Package cachekey derives the fingerprints used as cache keys.
//
// A fingerprint is the lowercase hex SHA-256 of the operation kind followed by
// the operation's semantic fields, each escaped and joined with '|'. Language
// names are compared case-insensitively; input text is NFC-normalized and
// trimmed but otherwise kept as typed.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/valpere/tlumacz/internal/domain"
)

const delimiter = "|"

var escaper = strings.NewReplacer(`\`, `\\`, delimiter, `\`+delimiter)

// Fingerprint hashes op and fields into a 64-character hex string.
func Fingerprint(op domain.Operation, fields ...string) string {
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, escaper.Replace(string(op)))
	for _, f := range fields {
		parts = append(parts, escaper.Replace(f))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, delimiter)))
	return hex.EncodeToString(sum[:])
}

// Word is the fingerprint of a translate-word request.
func Word(word string, source, target domain.Language) string {
	return Fingerprint(domain.OpTranslateWord, lang(source), lang(target), NormalizeText(word))
}

// Text is the fingerprint of a translate-text request after language resolution.
func Text(text string, source, target domain.Language) string {
	return Fingerprint(domain.OpTranslateText, lang(source), lang(target), NormalizeText(text))
}

// Grammar is the fingerprint of a review-grammar request.
func Grammar(text string) string {
	return Fingerprint(domain.OpReviewGrammar, NormalizeText(text))
}

// Pronunciation is the fingerprint of a play-pronunciation request.
func Pronunciation(text string, pos domain.PartOfSpeech) string {
	return Fingerprint(domain.OpPlayPronunciation, NormalizeText(text), strings.ToLower(string(pos)))
}

// NormalizeText trims whitespace and applies Unicode NFC normalization.
func NormalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

func lang(l domain.Language) string {
	return strings.ToLower(strings.TrimSpace(string(l)))
}
