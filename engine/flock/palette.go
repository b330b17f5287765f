package flock

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of instance colors.
const PaletteSize = 4

// Palette holds the instance colors a clone can be assigned at creation.
type Palette [PaletteSize]colorful.Color

// DefaultPalette returns the pastel palette used when none is configured.
func DefaultPalette() Palette {
	p, _ := ParsePalette([]string{"#ffb5c2", "#ffd59e", "#b5e8ff", "#c9b5ff"})
	return p
}

// ParsePalette parses exactly PaletteSize hex colors.
//
// Parameters:
//   - hexes: colors in #rrggbb or #rgb form
//
// Returns:
//   - Palette: the parsed palette
//   - error: error if the count is wrong or a color does not parse
func ParsePalette(hexes []string) (Palette, error) {
	var p Palette
	if len(hexes) != PaletteSize {
		return p, fmt.Errorf("palette needs %d colors, got %d", PaletteSize, len(hexes))
	}
	for i, hex := range hexes {
		c, err := colorful.Hex(hex)
		if err != nil {
			return p, fmt.Errorf("palette color %d: %w", i, err)
		}
		p[i] = c
	}
	return p, nil
}
