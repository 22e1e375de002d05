package pad

import "testing"

func TestEngineCoords_HalfScaleCentre(t *testing.T) {
	got := EngineCoords(Vec{X: 128, Y: 128}, Size{W: 256, H: 256})
	if got != (Point{X: 0, Y: 0}) {
		t.Fatalf("expected (0,0), got %+v", got)
	}
}

func TestEngineCoords_HalfScaleOrigin(t *testing.T) {
	got := EngineCoords(Vec{X: 0, Y: 0}, Size{W: 256, H: 256})
	if got != (Point{X: -256, Y: -256}) {
		t.Fatalf("expected (-256,-256), got %+v", got)
	}
}

func TestEngineCoords_UnscaledIsHalfOffset(t *testing.T) {
	got := EngineCoords(Vec{X: 300, Y: 10}, Size{W: Width, H: Height})
	if got != (Point{X: 300 - 256, Y: 10 - 256}) {
		t.Fatalf("expected plain half offset, got %+v", got)
	}
}

func TestEngineCoords_AxesScaleIndependently(t *testing.T) {
	// 1024 wide, 256 tall: x halves, y doubles.
	got := EngineCoords(Vec{X: 512, Y: 64}, Size{W: 1024, H: 256})
	if got != (Point{X: 0, Y: -128}) {
		t.Fatalf("expected (0,-128), got %+v", got)
	}
}

func TestEngineCoords_OutsideSurfaceNotClamped(t *testing.T) {
	got := EngineCoords(Vec{X: -10, Y: 700}, Size{W: Width, H: Height})
	if got != (Point{X: -266, Y: 444}) {
		t.Fatalf("expected unclamped (-266,444), got %+v", got)
	}
}

func TestEngineCoords_FractionalFloors(t *testing.T) {
	// 3/2 scale: 1 rendered px -> 1.5 canvas px -> pixel 1.
	got := EngineCoords(Vec{X: 1, Y: 1}, Size{W: Width / 1.5, H: Height / 1.5})
	if got != (Point{X: 1 - 256, Y: 1 - 256}) {
		t.Fatalf("expected floor to pixel 1, got %+v", got)
	}
	neg := EngineCoords(Vec{X: -0.5, Y: 0}, Size{W: Width, H: Height})
	if neg.X != -257 {
		t.Fatalf("expected -0.5 to floor to pixel -1 (engine -257), got %d", neg.X)
	}
}

func TestEngineCoords_ZeroRenderedSizeIsUnscaled(t *testing.T) {
	got := EngineCoords(Vec{X: 10, Y: 20}, Size{})
	if got != (Point{X: -246, Y: -236}) {
		t.Fatalf("expected unscaled mapping, got %+v", got)
	}
}

func TestBufferCoords_InvertsEngineCoords(t *testing.T) {
	for _, pos := range []Vec{{0, 0}, {511, 511}, {256, 3}, {17, 400}} {
		x, y := BufferCoords(EngineCoords(pos, Size{W: Width, H: Height}))
		if x != int64(pos.X) || y != int64(pos.Y) {
			t.Fatalf("round trip of %+v gave (%d,%d)", pos, x, y)
		}
	}
}
