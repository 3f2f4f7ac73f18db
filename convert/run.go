// Package convert implements the CLI actions turning narrative source files
// into playable output documents.
package convert

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pap/config"
	"pap/content"
	"pap/convert/bundle"
	"pap/convert/html"
	"pap/state"
)

//go:embed default.css
var defaultStylesheet []byte

//go:embed navigation.js
var navigationScript []byte

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format, err := config.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to html", zap.Error(err))
		format = config.OutputFmtHtml
	}

	env.DefaultStyle = defaultStylesheet
	styleBase := "."
	if env.Cfg.Document.StylesheetPath != "" {
		data, err := os.ReadFile(env.Cfg.Document.StylesheetPath)
		if err != nil {
			return fmt.Errorf("unable to read style css from %q: %w", env.Cfg.Document.StylesheetPath, err)
		}
		env.DefaultStyle = data
		styleBase = filepath.Dir(env.Cfg.Document.StylesheetPath)
	}
	// Output must stay self-contained - pull whatever the stylesheet references
	// into the stylesheet itself.
	env.DefaultStyle = inlineStylesheetResources(env.DefaultStyle, styleBase, log)

	env.Script = navigationScript

	if env.Cfg.Document.EndingMarkPath != "" {
		data, err := os.ReadFile(env.Cfg.Document.EndingMarkPath)
		if err != nil {
			return fmt.Errorf("unable to read ending mark from %q: %w", env.Cfg.Document.EndingMarkPath, err)
		}
		env.EndingMark = data
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, format, log)
}

// process handles the core compilation logic independently of CLI framework.
// It determines the input type (directory or single file) and processes
// accordingly.
func process(ctx context.Context, src, dst string, format config.OutputFmt, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsDir() {
		if err := processDir(ctx, src, dst, format, log); err != nil {
			return errors.New("unable to process directory")
		}
		return nil
	}

	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	if !isStoryFile(src) {
		return fmt.Errorf("input was not recognized as story source (%s)", src)
	}

	file, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open input source: %w", err)
	}
	defer file.Close()

	return processStory(ctx, file, filepath.Base(src), src, dst, format, log)
}

// processDir walks directory tree finding story files and processes them.
func processDir(ctx context.Context, dir, dst string, format config.OutputFmt, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !isStoryFile(path) {
			log.Debug("Skipping file, not recognized as story source", zap.String("file", path))
			return nil
		}

		count++

		file, err := os.Open(path)
		if err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			return nil
		}
		defer file.Close()

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processStory(ctx, file, src, path, dst, format, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	return err
}

// processStory compiles single story source. "src" is part of the source path
// (always including file name) relative to the original path - when actual
// file was specified it is just the base file name, when walking a directory
// it is the path relative to that directory. "path" is the real location of
// the source on disk (used to resolve image references), "dst" is the
// destination directory for compiled output.
func processStory(ctx context.Context, r io.Reader, src, path, dst string, format config.OutputFmt, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var refID, outputName string

	log.Info("Compilation starting", zap.String("from", src))
	defer func(start time.Time) {
		// NOTE: when multiple stories are being processed we do not want one
		// bad source to stop the whole batch.
		if r := recover(); r != nil {
			log.Error("Compilation ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("compilation panic: %v", r)
		} else {
			log.Info("Compilation completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("ref_id", refID))
		}
	}(time.Now())

	c, err := content.Prepare(ctx, r, path, log)
	if err != nil {
		return fmt.Errorf("unable to parse story source (%s): %w", src, err)
	}

	refID = c.DocID()

	// Generation never runs on a story with graph problems - report all of
	// them at once.
	if !c.Valid() {
		var errs error
		for _, d := range c.Diagnostics() {
			log.Error("Story problem", zap.String("kind", d.Kind.String()), zap.String("section", d.SectionID), zap.String("details", d.Message))
			errs = multierr.Append(errs, errors.New(d.String()))
		}
		return fmt.Errorf("story is not valid: %w", errs)
	}

	// Determine output file name and path based on input and configuration.
	outputName = buildOutputPath(c, src, dst, format, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	// Generate output in the requested format
	switch format {
	case config.OutputFmtHtml:
		if err := html.Generate(ctx, c, outputName, &env.Cfg.Document, log); err != nil {
			return fmt.Errorf("unable to generate output: %w", err)
		}
	case config.OutputFmtBundle:
		if err := bundle.Generate(ctx, c, outputName, &env.Cfg.Document, log); err != nil {
			return fmt.Errorf("unable to generate output: %w", err)
		}
	}

	// Store compilation result for debugging
	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s%s", refID, filepath.Ext(outputName)), outputName)
	}

	return nil
}
