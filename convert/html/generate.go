// Package html renders a validated story into a single playable HTML
// document with navigation script, styles and images embedded.
package html

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"pap/config"
	"pap/content"
	"pap/misc"
	"pap/state"
	"pap/story"
)

// Generate creates a self-contained HTML output file.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("Generating HTML", zap.String("output", outputPath))

	doc, err := Build(ctx, c, cfg, true, log)
	if err != nil {
		return err
	}

	_, tmpName := filepath.Split(outputPath)
	tmpName = filepath.Join(c.WorkDir(), tmpName)

	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	if _, err := doc.WriteTo(f); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	// clean temporary file
	defer os.Remove(tmpName)

	return copyFile(tmpName, outputPath)
}

// Build assembles the output document tree. With embedImages images become
// base64 data URIs, otherwise they are referenced by relative path inside the
// configured assets directory. The result is fully determined by the story -
// same input produces the same tree.
func Build(ctx context.Context, c *content.Content, cfg *config.DocumentConfig, embedImages bool, log *zap.Logger) (*etree.Document, error) {
	env := state.EnvFromContext(ctx)

	if !c.Valid() {
		return nil, errors.New("refusing to generate document from invalid story")
	}
	st := c.Story()

	doc := etree.NewDocument()
	doc.CreateDirective("DOCTYPE html")

	htmlEl := doc.CreateElement("html")
	htmlEl.CreateAttr("lang", st.Language(cfg.DefaultLanguage))

	head := htmlEl.CreateElement("head")

	charsetMeta := head.CreateElement("meta")
	charsetMeta.CreateAttr("charset", "UTF-8")

	viewportMeta := head.CreateElement("meta")
	viewportMeta.CreateAttr("name", "viewport")
	viewportMeta.CreateAttr("content", "width=device-width, initial-scale=1.0")

	generatorMeta := head.CreateElement("meta")
	generatorMeta.CreateAttr("name", "generator")
	generatorMeta.CreateAttr("content", misc.GetAppName()+" "+misc.GetVersion())

	idMeta := head.CreateElement("meta")
	idMeta.CreateAttr("name", "document-id")
	idMeta.CreateAttr("content", c.DocID())

	title := head.CreateElement("title")
	title.SetText(st.Meta[story.MetaTitle])

	style := head.CreateElement("style")
	writeGuardedCSS(style, env.DefaultStyle)

	body := htmlEl.CreateElement("body")

	storyDiv := body.CreateElement("div")
	storyDiv.CreateAttr("id", "story")
	storyDiv.CreateAttr("data-start", st.EntryID())

	for _, sec := range st.Sections {
		appendSection(storyDiv, c, sec, embedImages, cfg, env, log)
	}

	script := body.CreateElement("script")
	writeGuardedJS(script, env.Script)

	return doc, nil
}

// Style and script payloads go into CDATA so etree does not entity-escape
// them. Comment guards around the CDATA markers keep both HTML and XML
// parsers happy with the same bytes.
func writeGuardedCSS(style *etree.Element, css []byte) {
	style.CreateText("/*")
	style.CreateCData("*/\n" + string(css) + "\n/*")
	style.CreateText("*/")
}

func writeGuardedJS(script *etree.Element, js []byte) {
	script.CreateText("//")
	script.CreateCData("\n" + string(js) + "\n//")
}

// appendSection renders one section template. Templates are hidden, the
// navigation script clones and reveals them as the reader moves through the
// story.
func appendSection(parent *etree.Element, c *content.Content, sec *story.Section, embedImages bool, cfg *config.DocumentConfig, env *state.LocalEnv, log *zap.Logger) {
	div := parent.CreateElement("div")
	div.CreateAttr("class", "section")
	div.CreateAttr("id", "section-"+sec.ID)
	div.CreateAttr("data-section-name", sec.ID)
	div.CreateAttr("style", "display: none;")

	for _, b := range sec.Blocks {
		switch b.Kind {
		case story.BlockParagraph:
			p := div.CreateElement("p")
			appendSpans(p, b.Text)
		case story.BlockImage:
			img, ok := c.Images()[b.Image.Path]
			if !ok {
				log.Debug("Dropping reference to unusable image", zap.String("path", b.Image.Path))
				continue
			}
			el := div.CreateElement("img")
			if embedImages {
				el.CreateAttr("src", "data:"+img.MimeType+";base64,"+base64.StdEncoding.EncodeToString(img.Data))
			} else {
				el.CreateAttr("src", path.Join(cfg.Bundle.AssetsDir, img.Filename))
			}
			el.CreateAttr("alt", b.Image.Alt)
		}
	}

	if sec.Terminal() {
		appendEndingMark(div, env.EndingMark, log)
		return
	}

	choices := div.CreateElement("div")
	choices.CreateAttr("class", "choices")
	for _, ch := range sec.Choices {
		btn := choices.CreateElement("button")
		btn.CreateAttr("class", "choice")
		btn.CreateAttr("type", "button")
		btn.CreateAttr("data-target", ch.Target)
		btn.SetText(ch.Label)
	}
}

func appendSpans(p *etree.Element, text string) {
	for _, sp := range story.Spans(text) {
		switch {
		case sp.Bold:
			p.CreateElement("strong").SetText(sp.Text)
		case sp.Italic:
			p.CreateElement("em").SetText(sp.Text)
		default:
			p.CreateText(sp.Text)
		}
	}
}

// appendEndingMark closes a terminal section with a visual mark. The mark is
// an SVG fragment - parse it and graft the tree instead of escaping it as
// text.
func appendEndingMark(div *etree.Element, mark []byte, log *zap.Logger) {
	holder := div.CreateElement("div")
	holder.CreateAttr("class", "ending-mark")

	frag := etree.NewDocument()
	if err := frag.ReadFromBytes(mark); err != nil {
		log.Warn("Unable to parse ending mark, skipping", zap.Error(err))
		return
	}
	if frag.Root() == nil {
		log.Warn("Ending mark has no content, skipping")
		return
	}
	holder.AddChild(frag.Root().Copy())
}

func copyFile(src, dst string) error {

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destinationFile.Close()

	if _, err = io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err = destinationFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}
