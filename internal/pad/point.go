package pad

// Width and Height are the intrinsic pixel dimensions of the pad raster.
const (
	Width  = 512
	Height = 512

	halfWidth  = Width / 2
	halfHeight = Height / 2
)

// Point is a position in engine space: origin at the canvas centre, +X right,
// +Y down (the same orientation as the raster rows).
type Point struct {
	X, Y int64
}

// Layer is a set of same-coloured points. Order inside a layer is irrelevant.
type Layer []Point

// DrawList is one frame: layers ordered front-most first.
type DrawList []Layer

// Clone returns a deep copy so the engine may reuse its own slices after a
// frame has been handed across the worker boundary.
func (dl DrawList) Clone() DrawList {
	if dl == nil {
		return nil
	}
	out := make(DrawList, len(dl))
	for i, l := range dl {
		if l == nil {
			continue
		}
		out[i] = append(Layer(nil), l...)
	}
	return out
}

// Points returns the total number of points across all layers.
func (dl DrawList) Points() int {
	n := 0
	for _, l := range dl {
		n += len(l)
	}
	return n
}

// Handle is the opaque token returned by Engine.Start.
type Handle any
