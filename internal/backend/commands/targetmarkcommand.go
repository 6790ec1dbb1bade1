package commands

import (
	"fmt"
	"log/slog"

	"github.com/jo-hoe/seoseed/internal/backend/commandstructure"
)

const (
	LogoSize    = 200
	FaviconSize = 32
)

var logoRings = []ellipse{
	{20, 20, 180, 180, white},
	{40, 40, 160, 160, brandBlue},
	{60, 60, 140, 140, white},
	{80, 80, 120, 120, brandBlue},
	{90, 90, 110, 110, white},
}

var faviconRings = []ellipse{
	{2, 2, 30, 30, white},
	{6, 6, 26, 26, brandBlue},
	{10, 10, 22, 22, white},
	{14, 14, 18, 18, brandBlue},
}

// TargetMarkCommand renders the concentric-circle target mark used for the logo and
// the favicon. Both variants differ only in canvas size and ring layout.
type TargetMarkCommand struct {
	name  string
	size  int
	rings []ellipse
}

// NewLogoImageCommand creates the 200x200 logo generator
func NewLogoImageCommand(params map[string]any) (commandstructure.Command, error) {
	return &TargetMarkCommand{
		name:  "LogoImageCommand",
		size:  LogoSize,
		rings: logoRings,
	}, nil
}

// NewFaviconImageCommand creates the 32x32 favicon generator
func NewFaviconImageCommand(params map[string]any) (commandstructure.Command, error) {
	return &TargetMarkCommand{
		name:  "FaviconImageCommand",
		size:  FaviconSize,
		rings: faviconRings,
	}, nil
}

// Name returns the command name
func (c *TargetMarkCommand) Name() string {
	return c.name
}

// SVG returns the vector form of the mark, background included.
func (c *TargetMarkCommand) SVG() []byte {
	return buildEllipseSVG(c.size, c.size, brandBlue, c.rings)
}

func (c *TargetMarkCommand) Execute() ([]byte, error) {
	slog.Debug("TargetMarkCommand: start",
		"command_name", c.name,
		"size", c.size,
		"ring_count", len(c.rings))

	dst, err := renderSVG(c.SVG(), c.size, c.size, brandBlue)
	if err != nil {
		slog.Error("TargetMarkCommand: failed to render rings", "command_name", c.name, "error", err)
		return nil, fmt.Errorf("failed to render %s: %w", c.name, err)
	}

	out, err := encodePNG(dst)
	if err != nil {
		slog.Error("TargetMarkCommand: failed to encode", "command_name", c.name, "error", err)
		return nil, err
	}
	slog.Debug("TargetMarkCommand: complete", "command_name", c.name, "output_size_bytes", len(out))
	return out, nil
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("LogoImageCommand", NewLogoImageCommand); err != nil {
		panic(fmt.Sprintf("failed to register LogoImageCommand: %v", err))
	}
	if err := commandstructure.DefaultRegistry.Register("FaviconImageCommand", NewFaviconImageCommand); err != nil {
		panic(fmt.Sprintf("failed to register FaviconImageCommand: %v", err))
	}
}
