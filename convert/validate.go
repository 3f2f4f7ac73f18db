package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pap/content"
	"pap/state"
	"pap/story"
)

// RunValidate parses and validates a single story source without producing
// any output.
func RunValidate(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("validate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, extra arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open input source: %w", err)
	}
	defer f.Close()

	c, err := content.Prepare(ctx, f, src, log)
	if err != nil {
		return fmt.Errorf("unable to parse story source (%s): %w", src, err)
	}

	if !c.Valid() {
		var errs error
		for _, d := range c.Diagnostics() {
			log.Error("Story problem", zap.String("kind", d.Kind.String()), zap.String("section", d.SectionID), zap.String("details", d.Message))
			errs = multierr.Append(errs, errors.New(d.String()))
		}
		return fmt.Errorf("story is not valid, %d problem(s) found: %w", len(c.Diagnostics()), errs)
	}

	st := c.Story()
	log.Info("Story is valid",
		zap.String("title", st.Meta[story.MetaTitle]),
		zap.String("author", st.Meta[story.MetaAuthor]),
		zap.Int("sections", len(st.Sections)))
	return nil
}
