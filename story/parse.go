package story

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// delimiter separates the metadata block and individual sections. It is only
// recognized when it is the sole content of a line.
const delimiter = "---"

var (
	// headerPattern matches a section header line. Anything following the
	// closing brackets on the same line is kept as section content.
	headerPattern = regexp.MustCompile(`^\[\[([^\[\]|]+)\]\](.*)$`)
	// choicePattern matches a choice when it is the only content of a line,
	// either [[Label]] or [[Label|target]].
	choicePattern = regexp.MustCompile(`^\[\[([^\[\]|]+)(?:\|([^\[\]|]+))?\]\]$`)
	// imagePattern matches image references anywhere in paragraph text.
	imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
)

// ParseError is a fatal problem with the source text. Parsing never tries to
// continue past it - unlike validation diagnostics there is no sensible graph
// to report on.
type ParseError struct {
	Kind ParseErrorKind
	// Line is the 1-based source line where the problem was detected.
	Line int
	// Block is the raw source block being parsed when the problem was found.
	Block string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d", e.Kind, e.Line)
}

// rawBlock is a run of source lines between delimiters.
type rawBlock struct {
	lines []string
	start int // 1-based line number of the first line
}

func (b rawBlock) empty() bool {
	for _, l := range b.lines {
		if len(strings.TrimSpace(l)) > 0 {
			return false
		}
	}
	return true
}

func (b rawBlock) text() string {
	return strings.Join(b.lines, "\n")
}

// Parse converts source text into a Story. The returned error, if any, is
// always a *ParseError. Graph level problems (unknown link targets, missing
// metadata and so on) are not parse errors - run Validate on the result.
func Parse(text string, log *zap.Logger) (*Story, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	story := &Story{Meta: make(Metadata)}

	// Metadata block: opens only when the first non-blank line of the
	// document is a delimiter.
	body := 0
	for body < len(lines) && len(strings.TrimSpace(lines[body])) == 0 {
		body++
	}
	if body < len(lines) && strings.TrimSpace(lines[body]) == delimiter {
		closing := -1
		for i := body + 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == delimiter {
				closing = i
				break
			}
		}
		if closing < 0 {
			return nil, &ParseError{
				Kind:  ParseErrorKindMalformedMetadataBlock,
				Line:  body + 1,
				Block: strings.Join(lines[body:], "\n"),
			}
		}
		parseMetadata(lines[body+1:closing], story.Meta, log)
		body = closing + 1
	}

	// Remaining text splits into section blocks on delimiter lines.
	// Whitespace-only blocks (stray delimiters, trailing separators) are
	// dropped silently.
	block := rawBlock{start: body + 1}
	flush := func() error {
		if !block.empty() {
			sec, err := parseSection(block, log)
			if err != nil {
				return err
			}
			story.Sections = append(story.Sections, sec)
		}
		return nil
	}
	for i := body; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			if err := flush(); err != nil {
				return nil, err
			}
			block = rawBlock{start: i + 2}
			continue
		}
		block.lines = append(block.lines, lines[i])
	}
	if err := flush(); err != nil {
		return nil, err
	}

	log.Debug("Parsed story source",
		zap.Int("lines", len(lines)), zap.Int("sections", len(story.Sections)), zap.Int("metadata_keys", len(story.Meta)))

	return story, nil
}

// parseMetadata fills meta from "key: value" lines. The value is everything
// after the first colon, so colons inside values are fine. Lines without a
// colon carry no information and are skipped.
func parseMetadata(lines []string, meta Metadata, log *zap.Logger) {
	for _, line := range lines {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			log.Debug("Ignoring metadata line without separator", zap.String("line", line))
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		if len(key) == 0 {
			log.Debug("Ignoring metadata line with empty key", zap.String("line", line))
			continue
		}
		meta[key] = strings.TrimSpace(line[idx+1:])
	}
}

// parseSection converts a single raw block into a Section. The first
// non-blank line must be a section header.
func parseSection(block rawBlock, log *zap.Logger) (*Section, error) {
	first := 0
	for first < len(block.lines) && len(strings.TrimSpace(block.lines[first])) == 0 {
		first++
	}
	headerLine := block.start + first

	m := headerPattern.FindStringSubmatch(strings.TrimSpace(block.lines[first]))
	if m == nil {
		return nil, &ParseError{
			Kind:  ParseErrorKindMissingSectionHeader,
			Line:  headerLine,
			Block: block.text(),
		}
	}

	name := strings.TrimSpace(m[1])
	sec := &Section{
		ID:   MakeID(name),
		Name: name,
		Line: headerLine,
	}

	// Anything after the closing brackets of the header belongs to the body.
	content := make([]string, 0, len(block.lines)-first)
	if rest := strings.TrimSpace(m[2]); len(rest) > 0 {
		content = append(content, rest)
	}
	content = append(content, block.lines[first+1:]...)

	var para []string
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		sec.Blocks = append(sec.Blocks, splitParagraph(strings.Join(para, "\n"))...)
		para = para[:0]
	}

	for _, line := range content {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			flushPara()
			continue
		}
		if cm := choicePattern.FindStringSubmatch(trimmed); cm != nil {
			label := strings.TrimSpace(cm[1])
			if len(label) == 0 {
				// nothing to show the reader - keep the line as prose
				log.Debug("Choice with empty label treated as text", zap.String("section", sec.ID), zap.String("line", trimmed))
				para = append(para, trimmed)
				continue
			}
			target := strings.TrimSpace(cm[2])
			if len(target) == 0 {
				target = label
			}
			flushPara()
			sec.Choices = append(sec.Choices, Choice{Label: label, Target: MakeID(target)})
			continue
		}
		para = append(para, trimmed)
	}
	flushPara()

	return sec, nil
}

// splitParagraph breaks paragraph text into content blocks: image references
// become separate blocks splitting the surrounding prose in place.
func splitParagraph(text string) []Block {
	var blocks []Block

	addText := func(s string) {
		if s = strings.TrimSpace(s); len(s) > 0 {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: s})
		}
	}

	last := 0
	for _, loc := range imagePattern.FindAllStringSubmatchIndex(text, -1) {
		addText(text[last:loc[0]])
		blocks = append(blocks, Block{
			Kind: BlockImage,
			Image: &ImageRef{
				Alt:  text[loc[2]:loc[3]],
				Path: strings.TrimSpace(text[loc[4]:loc[5]]),
			},
		})
		last = loc[1]
	}
	addText(text[last:])

	return blocks
}
