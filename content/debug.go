package content

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"pap/story"
	"pap/utils/debug"
)

// String returns a readable tree of the whole Content starting with story
// metadata. It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()

	tw.Line(0, "Document", debug.String("id", c.docID), debug.String("source", c.srcName))

	tw.Line(0, "Metadata", debug.Int("count", len(c.story.Meta)))
	keys := slices.Collect(maps.Keys(c.story.Meta))
	sort.Sort(natural.StringSlice(keys))
	for _, k := range keys {
		tw.Text(1, k, c.story.Meta[k])
	}

	tw.Line(0, "Entry", debug.String("id", c.story.EntryID()))
	tw.Line(0, "Sections", debug.Int("count", len(c.story.Sections)))
	for _, sec := range c.story.Sections {
		tw.Line(1, "Section", debug.String("id", sec.ID), debug.Int("line", sec.Line), debug.String("name", sec.Name))
		for _, b := range sec.Blocks {
			switch b.Kind {
			case story.BlockParagraph:
				tw.Text(2, "paragraph", b.Text)
			case story.BlockImage:
				tw.Line(2, "image", debug.String("alt", b.Image.Alt), debug.String("path", b.Image.Path))
			}
		}
		for _, ch := range sec.Choices {
			tw.Line(2, "choice", debug.String("label", ch.Label), debug.String("target", ch.Target))
		}
	}

	if len(c.diags) > 0 {
		tw.Line(0, "Diagnostics", debug.Int("count", len(c.diags)))
		for _, d := range c.diags {
			tw.Line(1, d.String())
		}
	}

	if len(c.images) > 0 {
		tw.Line(0, "Images index", debug.Int("count", len(c.images)))
		keys := slices.Collect(maps.Keys(c.images))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			img := c.images[k]
			tw.Line(1, "Image",
				debug.String("ref", k), debug.String("file", img.Filename), debug.String("mime", img.MimeType),
				debug.Int("size", len(img.Data)), debug.Any("dim", fmt.Sprintf("%dx%d", img.Width, img.Height)))
		}
	}

	return tw.String()
}
