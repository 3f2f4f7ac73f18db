package content

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"go.uber.org/zap"

	"pap/config"
)

func testImagesConfig() *config.ImagesConfig {
	return &config.ImagesConfig{
		UseBroken:   true,
		JPEGQuality: 75,
		Resize:      config.ImageResizeModeNone,
	}
}

func transparentPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 128})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepareImage_Passthrough(t *testing.T) {
	data := createTestPNG(t, 8, 6)

	img := prepareImage("x.png", data, testImagesConfig(), zap.NewNop())
	if img == nil {
		t.Fatal("prepareImage() = nil")
	}
	if img.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", img.MimeType)
	}
	if img.Width != 8 || img.Height != 6 {
		t.Errorf("dimensions = %dx%d, want 8x6", img.Width, img.Height)
	}
	if !bytes.Equal(img.Data, data) {
		t.Error("unchanged image must keep original bytes")
	}
}

func TestPrepareImage_ScaleFactor(t *testing.T) {
	cfg := testImagesConfig()
	cfg.ScaleFactor = 0.5

	img := prepareImage("x.png", createTestPNG(t, 10, 10), cfg, zap.NewNop())
	if img == nil {
		t.Fatal("prepareImage() = nil")
	}
	if img.Width != 5 || img.Height != 5 {
		t.Errorf("dimensions = %dx%d, want 5x5", img.Width, img.Height)
	}
}

func TestPrepareImage_MaxBounds(t *testing.T) {
	tests := []struct {
		name       string
		mode       config.ImageResizeMode
		wantW      int
		wantH      int
		wantResize bool
	}{
		{name: "none leaves image alone", mode: config.ImageResizeModeNone, wantW: 40, wantH: 20},
		{name: "keepAR fits into box", mode: config.ImageResizeModeKeepAR, wantW: 10, wantH: 5, wantResize: true},
		{name: "stretch fills box", mode: config.ImageResizeModeStretch, wantW: 10, wantH: 10, wantResize: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testImagesConfig()
			cfg.Resize = tt.mode
			cfg.MaxWidth = 10
			cfg.MaxHeight = 10

			img := prepareImage("x.png", createTestPNG(t, 40, 20), cfg, zap.NewNop())
			if img == nil {
				t.Fatal("prepareImage() = nil")
			}
			if img.Width != tt.wantW || img.Height != tt.wantH {
				t.Errorf("dimensions = %dx%d, want %dx%d", img.Width, img.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPrepareImage_RemoveTransparency(t *testing.T) {
	cfg := testImagesConfig()
	cfg.RemovePNGTransparency = true

	img := prepareImage("x.png", transparentPNG(t), cfg, zap.NewNop())
	if img == nil {
		t.Fatal("prepareImage() = nil")
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if oimg, ok := decoded.(interface{ Opaque() bool }); ok && !oimg.Opaque() {
		t.Error("transparency was not removed")
	}
}

func TestPrepareImage_SVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10"><rect width="20" height="10"/></svg>`)

	t.Run("passthrough", func(t *testing.T) {
		img := prepareImage("x.svg", svg, testImagesConfig(), zap.NewNop())
		if img == nil {
			t.Fatal("prepareImage() = nil")
		}
		if img.MimeType != "image/svg+xml" {
			t.Errorf("MimeType = %q, want image/svg+xml", img.MimeType)
		}
		if !bytes.Equal(img.Data, svg) {
			t.Error("SVG passthrough must keep original bytes")
		}
	})

	t.Run("rasterized", func(t *testing.T) {
		cfg := testImagesConfig()
		cfg.RasterizeSVG = true

		img := prepareImage("x.svg", svg, cfg, zap.NewNop())
		if img == nil {
			t.Fatal("prepareImage() = nil")
		}
		if img.MimeType != "image/png" {
			t.Errorf("MimeType = %q, want image/png", img.MimeType)
		}
		if img.Width != 20 || img.Height != 10 {
			t.Errorf("dimensions = %dx%d, want 20x10", img.Width, img.Height)
		}
	})
}

func TestPrepareImage_Broken(t *testing.T) {
	garbage := []byte("this is not an image")

	t.Run("placeholder", func(t *testing.T) {
		img := prepareImage("x.png", garbage, testImagesConfig(), zap.NewNop())
		if img == nil {
			t.Fatal("prepareImage() = nil, want placeholder")
		}
		if !bytes.Equal(img.Data, brokenImagePNG) {
			t.Error("expected embedded placeholder bytes")
		}
		if img.Width == 0 || img.Height == 0 {
			t.Error("placeholder dimensions not set")
		}
	})

	t.Run("dropped", func(t *testing.T) {
		cfg := testImagesConfig()
		cfg.UseBroken = false

		if img := prepareImage("x.png", garbage, cfg, zap.NewNop()); img != nil {
			t.Errorf("prepareImage() = %+v, want nil", img)
		}
	})
}
