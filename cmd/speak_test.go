package cmd

import (
	"testing"

	"github.com/valpere/tlumacz/internal/domain"
)

func TestSplitPartOfSpeech(t *testing.T) {
	tests := []struct {
		input    string
		wantText string
		wantPOS  domain.PartOfSpeech
	}{
		{"record [pos:noun]", "record", domain.Noun},
		{"record [pos:verb]  ", "record", domain.Verb},
		{"lead [POS: Verb]", "lead", domain.Verb},
		{"read[pos:verb]", "read", domain.Verb},
		{"How are you?", "How are you?", ""},
		{"  kot  ", "kot", ""},
		{"bass [pos:fish]", "bass", domain.PartOfSpeech("fish")},
		{"[pos:noun] record", "[pos:noun] record", ""},
		{"tablica [x] [pos:noun]", "tablica [x]", domain.Noun},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			text, pos := splitPartOfSpeech(tt.input)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if pos != tt.wantPOS {
				t.Errorf("pos = %q, want %q", pos, tt.wantPOS)
			}
		})
	}
}
