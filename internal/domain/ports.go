package domain

import "context"

// LanguageModel is the LLM capability. Every method returns the provider's raw
// text; structured operations are expected to return JSON.
type LanguageModel interface {
	Name() string
	TranslateWord(ctx context.Context, word string, source, target Language) (string, error)
	// TranslateText accepts empty source or target languages.
	TranslateText(ctx context.Context, text string, source, target Language) (string, error)
	ReviewGrammar(ctx context.Context, text string) (string, error)
	// DetectLanguage returns {"language": "...", "confidence": 0-100}.
	DetectLanguage(ctx context.Context, text string) (string, error)
}

// SpeechSynthesizer is the text-to-speech capability.
type SpeechSynthesizer interface {
	Name() string
	// GenerateSpeech accepts an empty part of speech.
	GenerateSpeech(ctx context.Context, text string, pos PartOfSpeech) ([]byte, error)
}

// AudioPlayer plays encoded audio to completion.
type AudioPlayer interface {
	Play(ctx context.Context, audio []byte) error
}

// Repository persists the result cache and the operation history.
type Repository interface {
	// GetCached returns found=false on a miss. Expiry is the caller's concern.
	GetCached(ctx context.Context, fingerprint string) (entry CacheEntry, found bool, err error)
	// SaveCached is idempotent: an existing fingerprint is left untouched and
	// no error is returned.
	SaveCached(ctx context.Context, entry CacheEntry) error
	AppendHistory(ctx context.Context, entry HistoryEntry) error
	// RecentHistory returns up to limit entries, most recent first.
	RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
}
