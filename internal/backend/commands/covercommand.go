package commands

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/jo-hoe/seoseed/internal/backend/commandstructure"
	"golang.org/x/image/font"
)

const (
	CoverWidth  = 1200
	CoverHeight = 630
)

const (
	DefaultTitleSize    = 72
	DefaultSubtitleSize = 36
)

type textLine struct {
	text   string
	x, y   int
	size   float64
	colour color.RGBA
}

// CoverImageCommand renders the 1200x630 social sharing cover
type CoverImageCommand struct {
	name         string
	fontPath     string
	titleSize    float64
	subtitleSize float64
	strictFont   bool
}

// NewCoverImageCommand creates a cover generator. Optional params: "fontPath" overrides
// the preferred font, "titleSize" and "subtitleSize" set the text sizes in points, and
// "strictFont" turns a missing preferred font into an error instead of a fallback.
func NewCoverImageCommand(params map[string]any) (commandstructure.Command, error) {
	command := &CoverImageCommand{
		name:         "CoverImageCommand",
		fontPath:     commandstructure.GetStringParam(params, "fontPath", DefaultFontPath),
		titleSize:    commandstructure.GetFloatParam(params, "titleSize", DefaultTitleSize),
		subtitleSize: commandstructure.GetFloatParam(params, "subtitleSize", DefaultSubtitleSize),
		strictFont:   commandstructure.GetBoolParam(params, "strictFont", false),
	}
	if command.titleSize <= 0 || command.subtitleSize <= 0 {
		return nil, fmt.Errorf("text sizes must be positive, got titleSize=%g subtitleSize=%g",
			command.titleSize, command.subtitleSize)
	}
	return command, nil
}

// Name returns the command name
func (c *CoverImageCommand) Name() string {
	return c.name
}

// lines lays out the title, the gold tagline and the subtitle, each centred on x=600.
func (c *CoverImageCommand) lines() []textLine {
	return []textLine{
		{text: "Find Photography Jobs", x: 600, y: 250, size: c.titleSize, colour: white},
		{text: "10x Faster", x: 600, y: 320, size: c.titleSize, colour: gold},
		{text: "with OCUS Job Hunter", x: 600, y: 380, size: c.subtitleSize, colour: white},
	}
}

func (c *CoverImageCommand) Execute() ([]byte, error) {
	slog.Debug("CoverImageCommand: start",
		"width", CoverWidth,
		"height", CoverHeight,
		"font_path", c.fontPath,
		"strict_font", c.strictFont)

	dst := createTargetCanvas(CoverWidth, CoverHeight, brandBlue)

	faces := make(map[float64]font.Face)
	defer func() {
		for _, face := range faces {
			_ = face.Close()
		}
	}()

	for _, line := range c.lines() {
		face, ok := faces[line.size]
		if !ok {
			var fallback bool
			face, fallback = loadFace(c.fontPath, line.size)
			faces[line.size] = face
			if fallback && c.strictFont {
				return nil, fmt.Errorf("preferred font %s is unavailable", c.fontPath)
			}
			slog.Debug("CoverImageCommand: font face ready", "size", line.size, "fallback", fallback)
		}
		drawAnchoredText(dst, face, line.text, line.x, line.y, line.colour)
	}

	out, err := encodePNG(dst)
	if err != nil {
		slog.Error("CoverImageCommand: failed to encode cover", "error", err)
		return nil, err
	}
	slog.Debug("CoverImageCommand: complete", "output_size_bytes", len(out))
	return out, nil
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("CoverImageCommand", NewCoverImageCommand); err != nil {
		panic(fmt.Sprintf("failed to register CoverImageCommand: %v", err))
	}
}
