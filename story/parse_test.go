package story

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func mustParse(t *testing.T, text string) *Story {
	t.Helper()
	s, err := Parse(text, zap.NewNop())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func TestParse_Metadata(t *testing.T) {
	s := mustParse(t, `---
title: The Cave
Author: J. Smith
note: contains: colons
---

[[Start]]
Hello.
`)

	tests := []struct {
		key      string
		expected string
	}{
		{"title", "The Cave"},
		{"author", "J. Smith"},
		{"note", "contains: colons"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := s.Meta[tt.key]; got != tt.expected {
				t.Errorf("Meta[%q] = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}

	if len(s.Sections) != 1 {
		t.Fatalf("Sections = %d, want 1", len(s.Sections))
	}
}

func TestParse_NoMetadataBlock(t *testing.T) {
	s := mustParse(t, `[[Start]]
Just a section, no metadata.
`)

	if len(s.Meta) != 0 {
		t.Errorf("Meta = %v, want empty", s.Meta)
	}
	if len(s.Sections) != 1 {
		t.Fatalf("Sections = %d, want 1", len(s.Sections))
	}
	if s.Sections[0].ID != "start" {
		t.Errorf("section id = %q, want %q", s.Sections[0].ID, "start")
	}
}

func TestParse_MalformedMetadataBlock(t *testing.T) {
	_, err := Parse(`---
title: never closed
`, zap.NewNop())
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.Kind != ParseErrorKindMalformedMetadataBlock {
		t.Errorf("Kind = %v, want %v", perr.Kind, ParseErrorKindMalformedMetadataBlock)
	}
	if len(perr.Block) == 0 {
		t.Error("expected raw block context in error")
	}
}

func TestParse_MissingSectionHeader(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "plain text block",
			text: "no header at all\n",
		},
		{
			name: "second block without header",
			text: "[[Start]]\ntext\n---\njust text\n",
		},
		{
			name: "choice-like first line",
			text: "[[Start|elsewhere]]\ntext\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, zap.NewNop())
			if err == nil {
				t.Fatal("expected parse error, got nil")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if perr.Kind != ParseErrorKindMissingSectionHeader {
				t.Errorf("Kind = %v, want %v", perr.Kind, ParseErrorKindMissingSectionHeader)
			}
		})
	}
}

func TestParse_SectionSplitting(t *testing.T) {
	s := mustParse(t, `[[One]]
first

---

[[Two]]
second
---
---

[[Three]]
third
`)

	if len(s.Sections) != 3 {
		t.Fatalf("Sections = %d, want 3 (whitespace-only blocks must be dropped)", len(s.Sections))
	}

	expected := []string{"one", "two", "three"}
	for i, id := range expected {
		if s.Sections[i].ID != id {
			t.Errorf("Sections[%d].ID = %q, want %q", i, s.Sections[i].ID, id)
		}
	}
}

func TestParse_HeaderTrailingContent(t *testing.T) {
	s := mustParse(t, "[[Start]] And so it begins.\nMore text.\n")

	sec := s.Sections[0]
	if len(sec.Blocks) != 1 {
		t.Fatalf("Blocks = %d, want 1", len(sec.Blocks))
	}
	if sec.Blocks[0].Text != "And so it begins.\nMore text." {
		t.Errorf("paragraph = %q", sec.Blocks[0].Text)
	}
}

func TestParse_Paragraphs(t *testing.T) {
	s := mustParse(t, `[[Start]]
first paragraph
continues here

second paragraph
`)

	sec := s.Sections[0]
	if len(sec.Blocks) != 2 {
		t.Fatalf("Blocks = %d, want 2", len(sec.Blocks))
	}
	if sec.Blocks[0].Text != "first paragraph\ncontinues here" {
		t.Errorf("first paragraph = %q", sec.Blocks[0].Text)
	}
	if sec.Blocks[1].Text != "second paragraph" {
		t.Errorf("second paragraph = %q", sec.Blocks[1].Text)
	}
}

func TestParse_Choices(t *testing.T) {
	s := mustParse(t, `[[Start]]
Pick one.

[[Go Left]]
[[Run!|The Dark Cave]]
`)

	sec := s.Sections[0]
	if len(sec.Choices) != 2 {
		t.Fatalf("Choices = %d, want 2", len(sec.Choices))
	}

	tests := []struct {
		label  string
		target string
	}{
		{"Go Left", "go-left"},
		{"Run!", "the-dark-cave"},
	}
	for i, tt := range tests {
		if sec.Choices[i].Label != tt.label {
			t.Errorf("Choices[%d].Label = %q, want %q", i, sec.Choices[i].Label, tt.label)
		}
		if sec.Choices[i].Target != tt.target {
			t.Errorf("Choices[%d].Target = %q, want %q", i, sec.Choices[i].Target, tt.target)
		}
	}
}

func TestParse_ChoiceNotStandalone(t *testing.T) {
	s := mustParse(t, `[[Start]]
see [[Go Left]] inline
`)

	sec := s.Sections[0]
	if len(sec.Choices) != 0 {
		t.Errorf("Choices = %d, want 0 (inline choice markup must stay text)", len(sec.Choices))
	}
	if len(sec.Blocks) != 1 || sec.Blocks[0].Text != "see [[Go Left]] inline" {
		t.Errorf("Blocks = %+v", sec.Blocks)
	}
}

func TestParse_ChoiceEmptyLabel(t *testing.T) {
	s := mustParse(t, "[[Start]]\n[[ ]]\n")

	sec := s.Sections[0]
	if len(sec.Choices) != 0 {
		t.Errorf("Choices = %d, want 0", len(sec.Choices))
	}
	if len(sec.Blocks) != 1 {
		t.Errorf("whitespace-only label should stay text, Blocks = %+v", sec.Blocks)
	}
}

func TestParse_Images(t *testing.T) {
	s := mustParse(t, `[[Start]]
before ![a cave](cave.png) after

![](plain.jpg)
`)

	sec := s.Sections[0]
	if len(sec.Blocks) != 4 {
		t.Fatalf("Blocks = %d, want 4: %+v", len(sec.Blocks), sec.Blocks)
	}

	if sec.Blocks[0].Kind != BlockParagraph || sec.Blocks[0].Text != "before" {
		t.Errorf("Blocks[0] = %+v", sec.Blocks[0])
	}
	if sec.Blocks[1].Kind != BlockImage || sec.Blocks[1].Image.Alt != "a cave" || sec.Blocks[1].Image.Path != "cave.png" {
		t.Errorf("Blocks[1] = %+v", sec.Blocks[1])
	}
	if sec.Blocks[2].Kind != BlockParagraph || sec.Blocks[2].Text != "after" {
		t.Errorf("Blocks[2] = %+v", sec.Blocks[2])
	}
	if sec.Blocks[3].Kind != BlockImage || sec.Blocks[3].Image.Alt != "" || sec.Blocks[3].Image.Path != "plain.jpg" {
		t.Errorf("Blocks[3] = %+v", sec.Blocks[3])
	}
}

func TestParse_CRLF(t *testing.T) {
	s := mustParse(t, "---\r\ntitle: T\r\nauthor: A\r\n---\r\n[[Start]]\r\ntext\r\n")

	if s.Meta["title"] != "T" {
		t.Errorf("title = %q, want %q", s.Meta["title"], "T")
	}
	if len(s.Sections) != 1 || s.Sections[0].ID != "start" {
		t.Fatalf("Sections = %+v", s.Sections)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	s := mustParse(t, "")

	if len(s.Sections) != 0 {
		t.Errorf("Sections = %d, want 0", len(s.Sections))
	}
	if len(s.Meta) != 0 {
		t.Errorf("Meta = %v, want empty", s.Meta)
	}
}

func TestStory_EntryID(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "first declared section",
			text:     "[[Intro]]\nx\n---\n[[Other]]\ny\n",
			expected: "intro",
		},
		{
			name:     "start metadata wins",
			text:     "---\nstart: The Other\n---\n[[Intro]]\nx\n---\n[[The Other]]\ny\n",
			expected: "the-other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, tt.text)
			if got := s.EntryID(); got != tt.expected {
				t.Errorf("EntryID() = %q, want %q", got, tt.expected)
			}
		})
	}
}
