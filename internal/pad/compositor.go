package pad

import (
	"fmt"
	"image"
	"image/color"
)

const bytesPerPixel = 4

// Compositor owns the persistent pad raster and paints draw lists into it.
// It is not safe for concurrent use; the interactive side owns it.
type Compositor struct {
	img     *image.RGBA
	clipped int
	frames  int
}

// NewCompositor returns a compositor with a cleared Width×Height raster.
func NewCompositor() *Compositor {
	return &Compositor{img: image.NewRGBA(image.Rect(0, 0, Width, Height))}
}

// Clear resets every pixel to transparent black.
func (c *Compositor) Clear() {
	clear(c.img.Pix)
}

// DrawLayers repaints the raster from scratch. Layers are painted from the
// last index to the first, so lower indices overwrite and end up on top.
// colors[i] paints layers[i]; mismatched lengths leave the raster untouched.
func (c *Compositor) DrawLayers(layers DrawList, colors []color.RGBA) error {
	if len(layers) != len(colors) {
		return fmt.Errorf("%w: %d layers, %d colours", ErrColorCount, len(layers), len(colors))
	}
	c.Clear()
	c.clipped = 0
	for i := len(layers) - 1; i >= 0; i-- {
		c.clipped += c.DrawPoints(layers[i], colors[i])
	}
	c.frames++
	return nil
}

// DrawPoints writes each engine-space point into the raster with an opaque
// overwrite. Points that fall outside the raster are skipped; the number
// skipped is returned.
func (c *Compositor) DrawPoints(layer Layer, col color.RGBA) int {
	skipped := 0
	for _, p := range layer {
		x, y := BufferCoords(p)
		if !setPixel(c.img, x, y, col) {
			skipped++
		}
	}
	return skipped
}

// DrawPixels paints raster-space coordinates into a fresh buffer and returns
// it. The persistent raster is not touched.
func (c *Compositor) DrawPixels(coords []image.Point, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for _, p := range coords {
		setPixel(img, int64(p.X), int64(p.Y), col)
	}
	return img
}

// Image returns the persistent raster.
func (c *Compositor) Image() *image.RGBA { return c.img }

// Pix returns the raw row-major RGBA bytes of the persistent raster.
func (c *Compositor) Pix() []byte { return c.img.Pix }

// Clipped returns how many points the last DrawLayers pass skipped.
func (c *Compositor) Clipped() int { return c.clipped }

// Frames returns how many DrawLayers passes have completed.
func (c *Compositor) Frames() int { return c.frames }

// At returns the colour at raster position (x, y).
func (c *Compositor) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// LayerCoverage counts raster pixels whose colour equals each palette entry.
func (c *Compositor) LayerCoverage(colors []color.RGBA) []int {
	counts := make([]int, len(colors))
	pix := c.img.Pix
	for off := 0; off+bytesPerPixel <= len(pix); off += bytesPerPixel {
		px := color.RGBA{R: pix[off], G: pix[off+1], B: pix[off+2], A: pix[off+3]}
		for i, col := range colors {
			if px == col {
				counts[i]++
				break
			}
		}
	}
	return counts
}

// setPixel overwrites the four channels at (x, y). It reports false, without
// writing, for positions outside the image.
func setPixel(img *image.RGBA, x, y int64, col color.RGBA) bool {
	b := img.Rect
	if x < int64(b.Min.X) || y < int64(b.Min.Y) || x >= int64(b.Max.X) || y >= int64(b.Max.Y) {
		return false
	}
	off := img.PixOffset(int(x), int(y))
	img.Pix[off] = col.R
	img.Pix[off+1] = col.G
	img.Pix[off+2] = col.B
	img.Pix[off+3] = col.A
	return true
}
