package story

import (
	"reflect"
	"testing"
)

func TestSpans(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Span
	}{
		{
			name:     "Plain text",
			input:    "nothing special here",
			expected: []Span{{Text: "nothing special here"}},
		},
		{
			name:     "Bold only",
			input:    "**bold**",
			expected: []Span{{Text: "bold", Bold: true}},
		},
		{
			name:     "Italic only",
			input:    "*italic*",
			expected: []Span{{Text: "italic", Italic: true}},
		},
		{
			name:  "Mixed emphasis",
			input: "a **b** c *d* e",
			expected: []Span{
				{Text: "a "},
				{Text: "b", Bold: true},
				{Text: " c "},
				{Text: "d", Italic: true},
				{Text: " e"},
			},
		},
		{
			name:     "Unbalanced double marker stays literal",
			input:    "**never closed",
			expected: []Span{{Text: "**never closed"}},
		},
		{
			name:     "Unbalanced single marker stays literal",
			input:    "lonely * star",
			expected: []Span{{Text: "lonely * star"}},
		},
		{
			name:  "Adjacent spans",
			input: "**a***b*",
			expected: []Span{
				{Text: "a", Bold: true},
				{Text: "b", Italic: true},
			},
		},
		{
			name:  "No nesting - inner markers stay literal inside bold",
			input: "**a *b* c**",
			expected: []Span{
				{Text: "a *b* c", Bold: true},
			},
		},
		{
			name:     "Empty markers stay literal",
			input:    "****",
			expected: []Span{{Text: "****"}},
		},
		{
			name:     "Empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Spans(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Spans(%q) = %+v, want %+v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSpans_Pure(t *testing.T) {
	input := "a **b** c *d*"
	first := Spans(input)
	second := Spans(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Spans is not deterministic: %+v vs %+v", first, second)
	}
}
