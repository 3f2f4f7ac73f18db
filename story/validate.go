package story

import "fmt"

// Diagnostic is a single graph validation finding. SectionID is empty when
// the finding is about the story as a whole (metadata, entry point).
type Diagnostic struct {
	Kind      DiagnosticKind
	SectionID string
	Message   string
}

func (d Diagnostic) String() string {
	if len(d.SectionID) == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.SectionID, d.Message)
}

// requiredMetadata lists metadata keys every story must carry, in reporting
// order.
var requiredMetadata = []string{MetaTitle, MetaAuthor}

// Validate checks the story graph and returns every finding - it never stops
// at the first problem. The single exception is a story without sections:
// nothing else can usefully be said about it, so the emptyStory diagnostic
// suppresses the rest. A story is valid iff the result is empty.
func Validate(s *Story) []Diagnostic {
	if len(s.Sections) == 0 {
		return []Diagnostic{{
			Kind:    DiagnosticKindEmptyStory,
			Message: "story has no sections",
		}}
	}

	var diags []Diagnostic

	for _, key := range requiredMetadata {
		if v, ok := s.Meta[key]; !ok || len(v) == 0 {
			diags = append(diags, Diagnostic{
				Kind:    DiagnosticKindMissingMetadataField,
				Message: fmt.Sprintf("required metadata field %q is missing", key),
			})
		}
	}

	ids := s.BuildIDIndex()

	// Duplicates reported once per extra declaration, in declaration order.
	seen := make(map[string]int, len(s.Sections))
	for _, sec := range s.Sections {
		seen[sec.ID]++
		if seen[sec.ID] > 1 {
			diags = append(diags, Diagnostic{
				Kind:      DiagnosticKindDuplicateSectionId,
				SectionID: sec.ID,
				Message:   fmt.Sprintf("section id %q is declared more than once (line %d)", sec.ID, sec.Line),
			})
		}
	}

	// Explicitly requested entry point must exist. This is the only broken
	// link that does not originate from a choice.
	entry := s.EntryID()
	if start, ok := s.Meta[MetaStart]; ok && len(start) > 0 {
		if _, ok := ids[entry]; !ok {
			diags = append(diags, Diagnostic{
				Kind:    DiagnosticKindBrokenLink,
				Message: fmt.Sprintf("start section %q does not exist", start),
			})
		}
	}

	for _, sec := range s.Sections {
		for _, c := range sec.Choices {
			if _, ok := ids[c.Target]; !ok {
				diags = append(diags, Diagnostic{
					Kind:      DiagnosticKindBrokenLink,
					SectionID: sec.ID,
					Message:   fmt.Sprintf("choice %q references unknown section %q", c.Label, c.Target),
				})
			}
		}
	}

	// A section nobody links to is unreachable unless it is the entry point.
	links := s.BuildReverseLinkIndex()
	for _, sec := range s.Sections {
		if sec.ID == entry {
			continue
		}
		if len(links[sec.ID]) == 0 {
			diags = append(diags, Diagnostic{
				Kind:      DiagnosticKindOrphanedSection,
				SectionID: sec.ID,
				Message:   fmt.Sprintf("section %q is never referenced by any choice", sec.ID),
			})
		}
	}

	return diags
}
