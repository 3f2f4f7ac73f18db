package content

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"pap/config"
	"pap/state"
)

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{100, 150, 200, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func setupTestEnv(t *testing.T) context.Context {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx
}

func TestPrepare(t *testing.T) {
	ctx := setupTestEnv(t)
	env := state.EnvFromContext(ctx)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cave.png"), createTestPNG(t, 10, 10), 0644); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(dir, "test.story")
	text := `---
title: The Cave
author: Tester
---
[[Start]]
A picture:

![a cave](cave.png)

[[Onward|End]]

---

[[End]]
Done.
`
	if err := os.WriteFile(src, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(src)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	c, err := Prepare(ctx, f, src, env.Log)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer os.RemoveAll(c.WorkDir())

	if !c.Valid() {
		t.Errorf("Valid() = false, diagnostics: %v", c.Diagnostics())
	}
	if len(c.DocID()) == 0 {
		t.Error("DocID() is empty")
	}
	if len(c.Story().Sections) != 2 {
		t.Errorf("Sections = %d, want 2", len(c.Story().Sections))
	}

	img, ok := c.Images()["cave.png"]
	if !ok {
		t.Fatalf("image not prepared, index: %v", c.Images())
	}
	if img.Filename != "img00001.png" {
		t.Errorf("Filename = %q, want %q", img.Filename, "img00001.png")
	}
	if img.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want %q", img.MimeType, "image/png")
	}
	if img.Width != 10 || img.Height != 10 {
		t.Errorf("dimensions = %dx%d, want 10x10", img.Width, img.Height)
	}

	if info, err := os.Stat(c.WorkDir()); err != nil || !info.IsDir() {
		t.Errorf("WorkDir() = %q is not a directory", c.WorkDir())
	}
}

func TestPrepare_Diagnostics(t *testing.T) {
	ctx := setupTestEnv(t)
	env := state.EnvFromContext(ctx)

	c, err := Prepare(ctx, strings.NewReader("[[Start]]\n[[Go|Nowhere]]\n"), "test.story", env.Log)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer os.RemoveAll(c.WorkDir())

	if c.Valid() {
		t.Error("Valid() = true, want false for story with problems")
	}
	if len(c.Diagnostics()) == 0 {
		t.Error("Diagnostics() is empty")
	}
}

func TestPrepare_ParseError(t *testing.T) {
	ctx := setupTestEnv(t)
	env := state.EnvFromContext(ctx)

	_, err := Prepare(ctx, strings.NewReader("---\ntitle: never closed\n"), "test.story", env.Log)
	if err == nil {
		t.Fatal("expected error for malformed source, got nil")
	}
}

func TestContent_String(t *testing.T) {
	ctx := setupTestEnv(t)
	env := state.EnvFromContext(ctx)

	c, err := Prepare(ctx, strings.NewReader("---\ntitle: T\nauthor: A\n---\n[[Start]]\ntext\n"), "test.story", env.Log)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer os.RemoveAll(c.WorkDir())

	dump := c.String()
	for _, want := range []string{"Document id[", "Entry id[\"start\"]", "Sections count[1]", "paragraph: \"text\""} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump is missing %q:\n%s", want, dump)
		}
	}

	var nilContent *Content
	if nilContent.String() != "<nil Content>" {
		t.Errorf("nil dump = %q", nilContent.String())
	}
}
