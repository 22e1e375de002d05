package pad

import (
	"fmt"
	"image/color"
)

// Palette colours draw-list layers by index.
type Palette []color.RGBA

// DefaultPalette is the stock layer palette, front-most layer first.
var DefaultPalette = Palette{
	{R: 255, G: 102, B: 89, A: 255}, // #ff6659 salmon
	{R: 123, G: 31, B: 162, A: 255}, // #7b1fa2 purple
	{R: 48, G: 63, B: 159, A: 255},  // #303f9f indigo
	{R: 2, G: 136, B: 209, A: 255},  // #0288d1 light blue
	{R: 104, G: 159, B: 56, A: 255}, // #689f38 light green
	{R: 0, G: 121, B: 107, A: 255},  // #00796b teal
	{R: 245, G: 124, B: 0, A: 255},  // #f57c00 orange
	{R: 0, G: 0, B: 0, A: 255},      // #000000 black
}

// For returns the colours for a draw list with n layers. A palette with
// fewer than n entries is an error rather than a silent truncation.
func (p Palette) For(n int) ([]color.RGBA, error) {
	if n > len(p) {
		return nil, fmt.Errorf("%w: %d layers, palette has %d colours", ErrColorCount, n, len(p))
	}
	return p[:n], nil
}
