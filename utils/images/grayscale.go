package images

import (
	"image"
	"image/color"
)

// IsGrayscale reports whether every pixel of img has equal color channels.
// Common in-memory formats are scanned over raw pixel data, anything else
// falls back to per-pixel color model conversion.
func IsGrayscale(img image.Image) bool {
	switch im := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.NRGBA:
		return channelsEqual(im.Pix, im.Stride, im.Bounds())
	case *image.RGBA:
		// premultiplication scales all channels alike, equality survives
		return channelsEqual(im.Pix, im.Stride, im.Bounds())
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				return false
			}
		}
	}
	return true
}

func channelsEqual(pix []uint8, stride int, b image.Rectangle) bool {
	for y := 0; y < b.Dy(); y++ {
		row := pix[y*stride : y*stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			if row[i] != row[i+1] || row[i+1] != row[i+2] {
				return false
			}
		}
	}
	return true
}
