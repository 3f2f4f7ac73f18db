package convert

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pap/config"
	"pap/state"
)

//go:embed starter.story
var starterStory string

// RunInit scaffolds a new story project: a directory with a starter source
// file and a place for images.
func RunInit(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("init")

	name := cmd.Args().Get(0)
	if len(name) == 0 {
		return errors.New("no story name has been specified")
	}
	dir := cmd.String("dir")
	if len(dir) == 0 {
		dir = name
	}

	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory already exists: %s", dir)
	} else if !os.IsNotExist(err) {
		return err
	}

	title := cases.Title(language.Und).String(strings.NewReplacer("-", " ", "_", " ").Replace(name))

	tmpl, err := template.New("starter").Funcs(sprig.FuncMap()).Parse(starterStory)
	if err != nil {
		return fmt.Errorf("unable to parse starter template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Title string }{Title: title}); err != nil {
		return fmt.Errorf("unable to expand starter template: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "images"), 0755); err != nil {
		return fmt.Errorf("unable to create project directory: %w", err)
	}

	storyFile := filepath.Join(dir, config.CleanFileName(name)+".story")
	if err := os.WriteFile(storyFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write starter story: %w", err)
	}

	log.Info("Created new story project",
		zap.String("dir", dir), zap.String("story", storyFile), zap.String("title", title))
	return nil
}
