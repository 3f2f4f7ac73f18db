package story

import "strings"

// MakeID converts a raw section name (or a choice label used as a target)
// into the canonical section id: everything is lowercased, every maximal run
// of characters other than ASCII letters and digits collapses into a single
// hyphen, leading and trailing hyphens are dropped. The transformation is
// idempotent.
//
// NOTE: this is deliberately NOT slug.Make - slug transliterates non-ASCII
// letters ("Café" would become "cafe") while links in existing stories rely
// on such characters being treated as separators ("caf").
func MakeID(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pending := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
