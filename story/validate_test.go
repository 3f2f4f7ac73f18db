package story

import (
	"testing"

	"go.uber.org/zap"
)

func parseForValidation(t *testing.T, text string) *Story {
	t.Helper()
	s, err := Parse(text, zap.NewNop())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func kinds(diags []Diagnostic) []DiagnosticKind {
	out := make([]DiagnosticKind, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}

func TestValidate_ValidStory(t *testing.T) {
	s := parseForValidation(t, `---
title: T
author: A
---
[[Start]]
Pick.

[[Go|End]]

---

[[End]]
Done.
`)

	diags := Validate(s)
	if len(diags) != 0 {
		t.Errorf("Validate() = %v, want no diagnostics", diags)
	}
}

func TestValidate_EmptyStorySuppressesEverything(t *testing.T) {
	s := parseForValidation(t, "")

	diags := Validate(s)
	if len(diags) != 1 {
		t.Fatalf("Validate() = %v, want exactly one diagnostic", diags)
	}
	if diags[0].Kind != DiagnosticKindEmptyStory {
		t.Errorf("Kind = %v, want %v", diags[0].Kind, DiagnosticKindEmptyStory)
	}
}

func TestValidate_MissingMetadata(t *testing.T) {
	s := parseForValidation(t, "[[Start]]\ntext\n")

	diags := Validate(s)
	if len(diags) != 2 {
		t.Fatalf("Validate() = %v, want 2 diagnostics", diags)
	}
	for i, d := range diags {
		if d.Kind != DiagnosticKindMissingMetadataField {
			t.Errorf("diags[%d].Kind = %v, want %v", i, d.Kind, DiagnosticKindMissingMetadataField)
		}
		if len(d.SectionID) != 0 {
			t.Errorf("diags[%d].SectionID = %q, want empty", i, d.SectionID)
		}
	}
}

func TestValidate_BrokenLink(t *testing.T) {
	s := parseForValidation(t, `---
title: T
author: A
---
[[Start]]
[[Go|Nowhere]]
`)

	diags := Validate(s)
	if len(diags) != 1 {
		t.Fatalf("Validate() = %v, want 1 diagnostic", diags)
	}
	if diags[0].Kind != DiagnosticKindBrokenLink {
		t.Errorf("Kind = %v, want %v", diags[0].Kind, DiagnosticKindBrokenLink)
	}
	if diags[0].SectionID != "start" {
		t.Errorf("SectionID = %q, want %q", diags[0].SectionID, "start")
	}
}

func TestValidate_BrokenStartTarget(t *testing.T) {
	s := parseForValidation(t, `---
title: T
author: A
start: Missing
---
[[Start]]
text
`)

	diags := Validate(s)

	found := false
	for _, d := range diags {
		if d.Kind == DiagnosticKindBrokenLink && len(d.SectionID) == 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("Validate() = %v, want story-level brokenLink for unknown start target", diags)
	}
}

func TestValidate_OrphanedSection(t *testing.T) {
	s := parseForValidation(t, `---
title: T
author: A
---
[[Start]]
[[Go|End]]

---

[[End]]
fin

---

[[Lost]]
nobody links here
`)

	diags := Validate(s)
	if len(diags) != 1 {
		t.Fatalf("Validate() = %v, want 1 diagnostic", diags)
	}
	if diags[0].Kind != DiagnosticKindOrphanedSection {
		t.Errorf("Kind = %v, want %v", diags[0].Kind, DiagnosticKindOrphanedSection)
	}
	if diags[0].SectionID != "lost" {
		t.Errorf("SectionID = %q, want %q", diags[0].SectionID, "lost")
	}
}

func TestValidate_EntryIsNotOrphaned(t *testing.T) {
	// Nobody links back to Start - that must not be reported.
	s := parseForValidation(t, `---
title: T
author: A
---
[[Start]]
[[Go|End]]

---

[[End]]
fin
`)

	diags := Validate(s)
	if len(diags) != 0 {
		t.Errorf("Validate() = %v, want no diagnostics", diags)
	}
}

func TestValidate_IndirectReachabilityDoesNotCount(t *testing.T) {
	// Island links to itself in a cycle but nothing on the main path refers
	// to it - both island sections are referenced, so only link topology
	// decides: a cycle keeps its members referenced.
	s := parseForValidation(t, `---
title: T
author: A
---
[[Start]]
fin

---

[[IslandA]]
[[loop|IslandB]]

---

[[IslandB]]
[[back|IslandA]]
`)

	diags := Validate(s)
	if len(diags) != 0 {
		t.Errorf("Validate() = %v, want none (cycle members are directly referenced)", diags)
	}
}

func TestValidate_DuplicateSectionId(t *testing.T) {
	s := parseForValidation(t, `---
title: T
author: A
---
[[The Cave]]
one
[[x|the cave]]

---

[[The  Cave!]]
two - same id after normalization
[[x|the cave]]
`)

	diags := Validate(s)
	if len(diags) != 1 {
		t.Fatalf("Validate() = %v, want 1 diagnostic", diags)
	}
	if diags[0].Kind != DiagnosticKindDuplicateSectionId {
		t.Errorf("Kind = %v, want %v", diags[0].Kind, DiagnosticKindDuplicateSectionId)
	}
	if diags[0].SectionID != "the-cave" {
		t.Errorf("SectionID = %q, want %q", diags[0].SectionID, "the-cave")
	}
}

func TestValidate_Exhaustive(t *testing.T) {
	// Several independent problems must all be reported in a single run, in
	// a stable order: metadata, duplicates, broken links, orphans.
	s := parseForValidation(t, `[[Start]]
[[Go|Nowhere]]

---

[[Start]]
duplicate
[[x|start]]

---

[[Lost]]
orphan
`)

	diags := Validate(s)
	expected := []DiagnosticKind{
		DiagnosticKindMissingMetadataField,
		DiagnosticKindMissingMetadataField,
		DiagnosticKindDuplicateSectionId,
		DiagnosticKindBrokenLink,
		DiagnosticKindOrphanedSection,
	}

	got := kinds(diags)
	if len(got) != len(expected) {
		t.Fatalf("Validate() kinds = %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("diags[%d].Kind = %v, want %v", i, got[i], expected[i])
		}
	}
}
