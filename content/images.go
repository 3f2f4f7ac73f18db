package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pap/config"
	"pap/story"
	utilimages "pap/utils/images"
)

//go:embed broken.png
var brokenImagePNG []byte

// StoryImage is a single prepared illustration ready to be embedded into
// generated output.
type StoryImage struct {
	Filename string
	MimeType string
	Data     []byte
	Width    int
	Height   int
}

// StoryImages indexes prepared images by the path as written in the source.
type StoryImages map[string]*StoryImage

// mimeToExt returns file extension for common image MIME types
func mimeToExt(mimeType string) string {
	// Handle common types directly to prefer standard extensions
	switch strings.ToLower(mimeType) {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	case "image/webp":
		return "webp"
	case "image/tiff":
		return "tiff"
	}
	// Fallback to mime package for other types
	exts, err := mime.ExtensionsByType(mimeType)
	if err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "img"
}

// isSVG does a cheap content sniff - filetype does not know vector formats.
func isSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// prepareImages loads and processes every image the story references,
// resolving relative paths against the directory of the source file. It never
// fails - unreadable or broken images either get a placeholder or are dropped
// from the index depending on configuration.
func prepareImages(baseDir string, st *story.Story, cfg *config.ImagesConfig, log *zap.Logger) StoryImages {
	index := make(StoryImages)

	imgNum := 1
	for _, ref := range st.Images() {
		if _, exists := index[ref.Path]; exists {
			continue
		}

		path := filepath.FromSlash(ref.Path)
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		var img *StoryImage
		data, err := os.ReadFile(path)
		if err != nil {
			img = handleImageError(ref.Path, "read", err, cfg, log)
		} else {
			img = prepareImage(ref.Path, data, cfg, log)
		}
		if img == nil {
			// Placeholders are disabled, generators will drop the block.
			continue
		}
		img.Filename = fmt.Sprintf("img%05d.%s", imgNum, mimeToExt(img.MimeType))
		imgNum++
		index[ref.Path] = img
	}
	return index
}

// handleImageError is a unified error handler for all image processing
// failures. It logs the problem and substitutes the image with a placeholder
// when configuration allows, otherwise returns nil.
func handleImageError(ref, operation string, err error, cfg *config.ImagesConfig, log *zap.Logger) *StoryImage {
	if err != nil {
		log.Warn("Unable to "+operation+" image", zap.String("ref", ref), zap.Error(err))
	} else {
		log.Warn("Unable to "+operation+" image", zap.String("ref", ref))
	}

	if !cfg.UseBroken {
		return nil
	}

	log.Debug("Substituting image with broken.png", zap.String("ref", ref))
	img := &StoryImage{
		MimeType: "image/png",
		Data:     brokenImagePNG,
	}
	if dec, _, decErr := image.Decode(bytes.NewReader(brokenImagePNG)); decErr == nil {
		img.Width = dec.Bounds().Dx()
		img.Height = dec.Bounds().Dy()
	}
	return img
}

func encodeImage(ref string, img image.Image, imgType string, cfg *config.ImagesConfig, log *zap.Logger) ([]byte, error) {
	var buf = new(bytes.Buffer)
	var err error

	switch imgType {
	case "png":
		err = imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
		if err != nil {
			return nil, fmt.Errorf("unable to encode processed PNG %q: %w", ref, err)
		}
		return buf.Bytes(), nil
	case "jpeg":
		if utilimages.IsGrayscale(img) {
			// Single channel JPEG is noticeably smaller.
			gray := image.NewGray(img.Bounds())
			draw.Draw(gray, img.Bounds(), img, img.Bounds().Min, draw.Src)
			img = gray
		}
		err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(cfg.JPEGQuality))
		if err != nil {
			return nil, fmt.Errorf("unable to encode processed JPEG %q: %w", ref, err)
		}
		return buf.Bytes(), nil
	default:
		log.Warn("Unable to process image - unsupported format, skipping", zap.String("ref", ref), zap.String("type", imgType))
		return nil, nil
	}
}

// prepareImage performs required image modifications leaving original data
// intact if no changes were requested. If image is decodable it will always
// attempt to normalize mime type. Never returns an error - uses placeholder
// for broken images.
func prepareImage(ref string, data []byte, cfg *config.ImagesConfig, log *zap.Logger) *StoryImage {

	// Special case - SVG. Either rasterize or pass through untouched.
	if isSVG(data) {
		if !cfg.RasterizeSVG {
			return &StoryImage{
				MimeType: "image/svg+xml",
				Data:     data,
			}
		}
		img, err := utilimages.RasterizeSVGToImage(data, cfg.MaxWidth, cfg.MaxHeight)
		if err != nil {
			return handleImageError(ref, "rasterize", err, cfg, log)
		}
		encoded, err := encodeImage(ref, img, "png", cfg, log)
		if err != nil {
			return handleImageError(ref, "encode", err, cfg, log)
		}
		return &StoryImage{
			MimeType: "image/png",
			Data:     encoded,
			Width:    img.Bounds().Dx(),
			Height:   img.Bounds().Dy(),
		}
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || kind.MIME.Type != "image" {
		return handleImageError(ref, "detect", err, cfg, log)
	}
	log.Debug("Detected image type", zap.String("ref", ref), zap.String("mime", kind.MIME.Value))

	img, imgType, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return handleImageError(ref, "decode", err, cfg, log)
	}

	bi := &StoryImage{
		MimeType: mime.TypeByExtension("." + imgType),
		Data:     data,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}

	imageChanged := false

	// Uniform scaling
	if cfg.ScaleFactor > 0.0 && cfg.ScaleFactor != 1.0 {
		if imgType == "png" || imgType == "jpeg" {
			resizedImg := imaging.Resize(img, 0, int(float64(img.Bounds().Dy())*cfg.ScaleFactor), imaging.Linear)
			if resizedImg == nil {
				return handleImageError(ref, "resize", nil, cfg, log)
			}
			img = resizedImg
			bi.Width = img.Bounds().Dx()
			bi.Height = img.Bounds().Dy()
			imageChanged = true
		}
	}

	// Fitting into configured bounds
	if exceedsBounds(img, cfg.MaxWidth, cfg.MaxHeight) {
		switch cfg.Resize {
		case config.ImageResizeModeNone:
		case config.ImageResizeModeKeepAR:
			resizedImg := fitBounds(img, cfg.MaxWidth, cfg.MaxHeight)
			if resizedImg == nil {
				return handleImageError(ref, "resize", nil, cfg, log)
			}
			img = resizedImg
			bi.Width = img.Bounds().Dx()
			bi.Height = img.Bounds().Dy()
			imageChanged = true
		case config.ImageResizeModeStretch:
			w, h := cfg.MaxWidth, cfg.MaxHeight
			if w <= 0 {
				w = img.Bounds().Dx()
			}
			if h <= 0 {
				h = img.Bounds().Dy()
			}
			resizedImg := imaging.Resize(img, w, h, imaging.Lanczos)
			if resizedImg == nil {
				return handleImageError(ref, "resize", nil, cfg, log)
			}
			img = resizedImg
			bi.Width = img.Bounds().Dx()
			bi.Height = img.Bounds().Dy()
			imageChanged = true
		}
	}

	// PNG transparency
	if cfg.RemovePNGTransparency {
		if imgType == "png" {
			opaque := func(im image.Image) bool {
				if oimg, ok := im.(interface{ Opaque() bool }); ok {
					return oimg.Opaque()
				}
				return true
			}(img)

			if !opaque {
				log.Debug("Removing PNG transparency", zap.String("ref", ref))
				opaqueImg := image.NewRGBA(img.Bounds())
				draw.Draw(opaqueImg, img.Bounds(), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
				draw.Draw(opaqueImg, img.Bounds(), img, image.Point{}, draw.Over)
				img = opaqueImg
				imageChanged = true
			}
		}
	}

	// Formats browsers cannot display inline get converted to PNG.
	if imgType == "bmp" || imgType == "tiff" {
		log.Debug("Converting image to PNG", zap.String("ref", ref), zap.String("type", imgType))
		imgType = "png"
		bi.MimeType = mime.TypeByExtension(".png")
		imageChanged = true
	}

	if !imageChanged {
		return bi
	}

	encoded, err := encodeImage(ref, img, imgType, cfg, log)
	if err != nil {
		return handleImageError(ref, "encode", err, cfg, log)
	}
	if encoded != nil {
		bi.Data = encoded
	}

	return bi
}

func exceedsBounds(img image.Image, maxW, maxH int) bool {
	if maxW > 0 && img.Bounds().Dx() > maxW {
		return true
	}
	if maxH > 0 && img.Bounds().Dy() > maxH {
		return true
	}
	return false
}

func fitBounds(img image.Image, maxW, maxH int) image.Image {
	switch {
	case maxW > 0 && maxH > 0:
		return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	case maxW > 0:
		return imaging.Resize(img, maxW, 0, imaging.Lanczos)
	case maxH > 0:
		return imaging.Resize(img, 0, maxH, imaging.Lanczos)
	}
	return img
}
