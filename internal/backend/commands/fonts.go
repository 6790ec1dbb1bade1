package commands

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontPath is the preferred TrueType font for cover text.
const DefaultFontPath = "/System/Library/Fonts/Arial.ttf"

// loadFace returns a face for the font at fontPath. Any failure to read or parse the
// preferred font is swallowed and the built-in Go Regular face is used instead; if
// that also fails the fixed 7x13 bitmap face is returned. The bool reports whether a
// fallback was taken.
func loadFace(fontPath string, size float64) (font.Face, bool) {
	face, err := loadFontFile(fontPath, size)
	if err == nil {
		return face, false
	}
	slog.Debug("loadFace: preferred font unavailable; using built-in font",
		"font_path", fontPath,
		"size", size,
		"error", err)

	face, err = parseFace(goregular.TTF, size)
	if err == nil {
		return face, true
	}
	slog.Debug("loadFace: built-in font failed to parse; using bitmap face", "error", err)
	return basicfont.Face7x13, true
}

func loadFontFile(fontPath string, size float64) (font.Face, error) {
	if fontPath == "" {
		return nil, fmt.Errorf("no font path configured")
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", fontPath, err)
	}
	return parseFace(data, size)
}

func parseFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}
