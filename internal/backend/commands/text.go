package commands

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawAnchoredText draws text whose horizontal advance and vertical ascent/descent
// span are both centred on (cx, cy).
func drawAnchoredText(dst draw.Image, face font.Face, text string, cx, cy int, c color.Color) {
	metrics := face.Metrics()
	width := font.MeasureString(face, text)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(cx) - width/2,
			Y: fixed.I(cy) + (metrics.Ascent-metrics.Descent)/2,
		},
	}
	d.DrawString(text)
}
