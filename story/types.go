// Package story implements parsing of the branching narrative markup into a
// story graph and validation of that graph before any output is generated.
package story

// Metadata holds story-wide key/value pairs from the metadata block. Keys are
// lowercased at parse time.
type Metadata map[string]string

// Well-known metadata keys.
const (
	MetaTitle  = "title"
	MetaAuthor = "author"
	MetaStart  = "start"
	MetaLang   = "lang"
)

// BlockKind discriminates section content blocks.
type BlockKind int

const (
	// BlockParagraph is a run of prose lines separated from its neighbours
	// by blank lines or images.
	BlockParagraph BlockKind = iota
	// BlockImage is a reference to an external image file.
	BlockImage
)

// ImageRef is an image reference as it appears in the source text.
type ImageRef struct {
	Alt  string
	Path string
}

// Block is a single content block of a section. Kind selects which of the
// remaining fields is meaningful.
type Block struct {
	Kind  BlockKind
	Text  string    // BlockParagraph
	Image *ImageRef // BlockImage
}

// Choice is a navigation option offered at the end of a section. Target is
// always a normalized section id; when the source omits an explicit target
// the label itself is normalized into one.
type Choice struct {
	Label  string
	Target string
}

// Section is a single node of the story graph.
type Section struct {
	// ID is the normalized section name, unique links are resolved against it.
	ID string
	// Name is the raw section name as written in the header.
	Name string
	// Line is the 1-based source line of the section header.
	Line int

	Blocks  []Block
	Choices []Choice
}

// Terminal reports whether section offers no further choices.
func (s *Section) Terminal() bool {
	return len(s.Choices) == 0
}

// Story is the parsed narrative: metadata plus sections in declaration order.
type Story struct {
	Meta     Metadata
	Sections []*Section
}

// EntryID returns the id of the section the story starts with: the normalized
// "start" metadata value when present, otherwise the first declared section.
// Empty string means the story has no sections at all.
func (s *Story) EntryID() string {
	if start, ok := s.Meta[MetaStart]; ok && len(start) > 0 {
		return MakeID(start)
	}
	if len(s.Sections) > 0 {
		return s.Sections[0].ID
	}
	return ""
}

// Language returns story language from metadata falling back to def.
func (s *Story) Language(def string) string {
	if lang, ok := s.Meta[MetaLang]; ok && len(lang) > 0 {
		return lang
	}
	return def
}

// SectionByID returns first declared section with the given id.
func (s *Story) SectionByID(id string) *Section {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec
		}
	}
	return nil
}

// Images returns all image references of the story in declaration order.
func (s *Story) Images() []ImageRef {
	var refs []ImageRef
	for _, sec := range s.Sections {
		for _, b := range sec.Blocks {
			if b.Kind == BlockImage && b.Image != nil {
				refs = append(refs, *b.Image)
			}
		}
	}
	return refs
}
