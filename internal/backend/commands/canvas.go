package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// Palette shared by every generated asset.
var (
	brandBlue = color.RGBA{0x4A, 0x90, 0xE2, 0xFF} // #4A90E2
	white     = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	gold      = color.RGBA{0xFF, 0xD7, 0x00, 0xFF} // #FFD700
)

func createTargetCanvas(w, h int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return dst
}

// encodePNG encodes an opaque canvas. The encoder picks 8-bit RGB for opaque images,
// so the output carries no alpha channel.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	b := img.Bounds()
	buf.Grow(b.Dx() * b.Dy())
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// hexColor renders c as #RRGGBB for use in SVG attributes.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
