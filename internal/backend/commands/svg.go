package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ellipse is a filled ellipse given by its inclusive pixel bounding box [x0,y0]..[x1,y1].
type ellipse struct {
	x0, y0, x1, y1 int
	fill           color.RGBA
}

// buildEllipseSVG describes a w x h document filled with background and the ellipses
// painted over it in order. An inclusive box covers x1-x0+1 pixels, so the geometric
// centre sits half a pixel past the box midpoint.
func buildEllipseSVG(w, h int, background color.RGBA, shapes []ellipse) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, w, h, hexColor(background))
	for _, e := range shapes {
		cx := float64(e.x0+e.x1+1) / 2
		cy := float64(e.y0+e.y1+1) / 2
		rx := float64(e.x1-e.x0+1) / 2
		ry := float64(e.y1-e.y0+1) / 2
		fmt.Fprintf(&buf, `<ellipse cx="%g" cy="%g" rx="%g" ry="%g" fill="%s"/>`, cx, cy, rx, ry, hexColor(e.fill))
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

// renderSVG rasterizes an SVG document onto a canvas of the given size filled with bg.
func renderSVG(svgData []byte, targetW, targetH int, bg color.Color) (*image.RGBA, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", targetW, targetH)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := createTargetCanvas(targetW, targetH, bg)

	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)

	return dst, nil
}
