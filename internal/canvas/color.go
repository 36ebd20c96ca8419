package canvas

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/slok/wsc/internal/model"
)

// Palette colors offered to the user.
const (
	ColorBlack = "#000000"
	ColorBlue  = "#0066cc"
	ColorRed   = "#cc0000"
)

var paletteNames = map[string]string{
	"black": ColorBlack,
	"blue":  ColorBlue,
	"red":   ColorRed,
}

// parseColor accepts `#rrggbb`, `#rgb` or a palette name and returns the opaque color
// with its normalized hex form.
func parseColor(s string) (color.RGBA, string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := paletteNames[s]; ok {
		s = hex
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, "", fmt.Errorf("invalid color %q: %w", s, model.ErrNotValid)
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, c.Hex(), nil
}
