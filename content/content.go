// Package content turns a single narrative source into everything generators
// need: the parsed story graph, validation results, prepared images and a
// working directory for debugging artifacts.
package content

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"pap/misc"
	"pap/state"
	"pap/story"
)

// Content encapsulates parsed narrative source together with the indexes and
// resources derived from it.
type Content struct {
	srcName string
	docID   string

	story  *story.Story
	diags  []story.Diagnostic
	images StoryImages

	tmpDir string
}

// Accessor methods to expose Content fields to avoid cyclic imports in
// generator packages

func (c *Content) Story() *story.Story { return c.story }

func (c *Content) Diagnostics() []story.Diagnostic { return c.diags }

// Valid reports whether the story graph passed validation.
func (c *Content) Valid() bool { return len(c.diags) == 0 }

func (c *Content) Images() StoryImages { return c.images }

func (c *Content) DocID() string { return c.docID }

func (c *Content) SourceName() string { return c.srcName }

func (c *Content) WorkDir() string { return c.tmpDir }

// Prepare reads, parses and validates narrative source getting it ready for
// generation. Image loading problems are never fatal, graph problems are
// reported as diagnostics - the only errors returned are I/O failures and
// source text the parser cannot make sense of.
func Prepare(ctx context.Context, r io.Reader, srcName string, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	// Source files in the wild come in all encodings, sniff and convert to
	// UTF-8 before parsing.
	cr, err := charset.NewReader(r, "text/plain")
	if err != nil {
		return nil, fmt.Errorf("unable to detect source encoding: %w", err)
	}
	data, err := io.ReadAll(cr)
	if err != nil {
		return nil, fmt.Errorf("unable to read story source: %w", err)
	}

	st, err := story.Parse(string(data), log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse story: %w", err)
	}
	diags := story.Validate(st)

	refID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate document UUID: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), refID.String()), tmpDir)

	baseSrcName := filepath.Base(srcName)

	// Save normalized source to file for debugging
	if env.Rpt != nil {
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName), data, 0644); err != nil {
			return nil, fmt.Errorf("unable to write input source for debugging: %w", err)
		}
	}

	content := &Content{
		srcName: srcName,
		docID:   refID.String(),
		story:   st,
		diags:   diags,
		images:  prepareImages(filepath.Dir(srcName), st, &env.Cfg.Document.Images, log),
		tmpDir:  tmpDir,
	}

	// Save parsed story to file for debugging
	if env.Rpt != nil {
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName+"_parsed"), []byte(content.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write parsed story for debugging: %w", err)
		}
	}

	return content, nil
}
