package story

import "regexp"

// Span is a run of paragraph text with uniform formatting.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// spanPattern matches the shortest possible emphasized runs. Alternation
// order makes ** win over * at the same position, the lazy bold body keeps
// single markers inside a bold run literal (spans never nest) and markers
// without a matching counterpart simply do not match and stay literal text.
var spanPattern = regexp.MustCompile(`\*\*(.+?)\*\*|\*([^*]+)\*`)

// Spans splits paragraph text into ordered formatting spans. It is pure:
// same input always produces the same result and the concatenation of span
// texts with markers reinserted reproduces the input.
func Spans(text string) []Span {
	var spans []Span

	plain := func(s string) {
		if len(s) > 0 {
			spans = append(spans, Span{Text: s})
		}
	}

	last := 0
	for _, loc := range spanPattern.FindAllStringSubmatchIndex(text, -1) {
		plain(text[last:loc[0]])
		if loc[2] >= 0 {
			spans = append(spans, Span{Text: text[loc[2]:loc[3]], Bold: true})
		} else {
			spans = append(spans, Span{Text: text[loc[4]:loc[5]], Italic: true})
		}
		last = loc[1]
	}
	plain(text[last:])

	return spans
}
