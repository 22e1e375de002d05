package pad

import "math"

// Vec is a pointer position relative to the rendered element, in rendered pixels.
type Vec struct {
	X, Y float64
}

// Size is the rendered (on-screen) size of the pad surface.
type Size struct {
	W, H float64
}

// CanvasCoords scales an element-relative position into intrinsic raster pixels.
// A non-positive rendered dimension is treated as unscaled on that axis.
func CanvasCoords(pos Vec, rendered Size) Vec {
	sx, sy := 1.0, 1.0
	if rendered.W > 0 {
		sx = Width / rendered.W
	}
	if rendered.H > 0 {
		sy = Height / rendered.H
	}
	return Vec{X: pos.X * sx, Y: pos.Y * sy}
}

// EngineCoords maps an element-relative pointer position into engine space.
//
// The click offset is subtracted from the centre: engine = canvas - half.
// Fractional positions are floored to the containing pixel. Positions outside
// the surface are passed through unclamped.
func EngineCoords(pos Vec, rendered Size) Point {
	c := CanvasCoords(pos, rendered)
	return Point{
		X: int64(math.Floor(c.X)) - halfWidth,
		Y: int64(math.Floor(c.Y)) - halfHeight,
	}
}

// BufferCoords is the inverse of EngineCoords for whole pixels: it moves an
// engine-space point to top-left-origin raster coordinates.
func BufferCoords(p Point) (x, y int64) {
	return p.X + halfWidth, p.Y + halfHeight
}
