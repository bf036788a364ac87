package postprocess

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "clean text",
			input:    "Ala has a cat.",
			expected: "Ala has a cat.",
		},
		{
			name:     "thinking block and echo and quotes",
			input:    "<think>The user wants English</think>Here's the translation:\n\"Ala has a cat.\"",
			expected: "Ala has a cat.",
		},
		{
			name:     "truncated thinking at end",
			input:    "Ala has a cat.<thinking>Incomplete",
			expected: "Ala has a cat.",
		},
		{
			name:     "sure echo",
			input:    "Sure, here is the English translation: Good morning",
			expected: "Good morning",
		},
		{
			name:     "polish echo",
			input:    "Tłumaczenie: Dzień dobry",
			expected: "Dzień dobry",
		},
		{
			name:     "polish quotes",
			input:    "„Dzień dobry”",
			expected: "Dzień dobry",
		},
		{
			name:     "echo without colon is content",
			input:    "Here is the text I wrote yesterday",
			expected: "Here is the text I wrote yesterday",
		},
		{
			name:     "unmatched quotes kept",
			input:    "\"Hello world'",
			expected: "\"Hello world'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Text(tt.input)
			if result != tt.expected {
				t.Errorf("Text(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain object",
			input:    `{"language":"Polish","confidence":95}`,
			expected: `{"language":"Polish","confidence":95}`,
		},
		{
			name:     "json code fence",
			input:    "```json\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "bare code fence",
			input:    "```\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "leading prose",
			input:    "Here is the JSON you asked for: {\"a\":{\"b\":2}} Hope it helps!",
			expected: `{"a":{"b":2}}`,
		},
		{
			name:     "reasoning before object",
			input:    "<think>{\"draft\":true}</think>{\"a\":1}",
			expected: `{"a":1}`,
		},
		{
			name:     "no object",
			input:    "  I cannot help with that.  ",
			expected: "I cannot help with that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := JSON(tt.input)
			if result != tt.expected {
				t.Errorf("JSON(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
