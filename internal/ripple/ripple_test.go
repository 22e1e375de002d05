package ripple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Galaxy-Pad/internal/pad"
)

type frames []pad.DrawList

func (f *frames) render(dl pad.DrawList) { *f = append(*f, dl) }

func contains(l pad.Layer, p pad.Point) bool {
	for _, q := range l {
		if q == p {
			return true
		}
	}
	return false
}

func TestStart_RendersEmptyBoard(t *testing.T) {
	var got frames
	e := New(Options{Frames: 4, Radius: 10}, nil)
	h, err := e.Start(got.render)
	require.NoError(t, err)
	require.NotNil(t, h)

	require.Len(t, got, 1)
	require.Len(t, got[0], layerCount)
	assert.Empty(t, got[0][LayerClicks])
	assert.Empty(t, got[0][LayerActive])
	assert.True(t, contains(got[0][LayerAxes], pad.Point{X: -256, Y: 0}))
	assert.True(t, contains(got[0][LayerAxes], pad.Point{X: 0, Y: 4}))
}

func TestDispatch_RendersFramesPerClick(t *testing.T) {
	var got frames
	e := New(Options{Frames: 6, Radius: 20, Step: 0.05}, nil)
	h, err := e.Start(got.render)
	require.NoError(t, err)
	got = nil

	click := pad.Point{X: 30, Y: -40}
	require.NoError(t, e.Dispatch(h, click, got.render))
	require.Len(t, got, 6)

	growing := got[len(got)-2]
	assert.True(t, contains(got[len(got)-1][LayerClicks], click))
	assert.Less(t, len(got[0][LayerActive]), len(growing[LayerActive]), "ring grows")
}

func TestDispatch_FinalFrameHoldsSettledRing(t *testing.T) {
	var got frames
	e := New(Options{Frames: 4, Radius: 20}, nil)
	h, err := e.Start(got.render)
	require.NoError(t, err)
	got = nil

	click := pad.Point{X: 30, Y: -40}
	require.NoError(t, e.Dispatch(h, click, got.render))
	require.Len(t, got, 4)

	for _, f := range got[:3] {
		assert.NotEmpty(t, f[LayerActive])
		assert.Empty(t, f[LayerSettled])
	}
	last := got[3]
	assert.Empty(t, last[LayerActive], "no ring left in flight")
	assert.True(t, contains(last[LayerSettled], pad.Point{X: 50, Y: -40}), "finished ring at full radius")
	assert.True(t, contains(last[LayerSettled], pad.Point{X: 30, Y: -60}))
}

func TestDispatch_SettledRingsAccumulate(t *testing.T) {
	var got frames
	e := New(Options{Frames: 1, Radius: 5}, nil)
	h, err := e.Start(got.render)
	require.NoError(t, err)

	require.NoError(t, e.Dispatch(h, pad.Point{}, got.render))
	got = nil
	require.NoError(t, e.Dispatch(h, pad.Point{X: 100, Y: 100}, got.render))

	require.Len(t, got, 1)
	assert.True(t, contains(got[0][LayerSettled], pad.Point{X: 5, Y: 0}), "first ring is settled")
	assert.Len(t, h.(*Session).Clicks(), 2)
}

func TestDispatch_ZeroFrames(t *testing.T) {
	var got frames
	e := New(Options{Frames: 0, Radius: 5}, nil)
	h, err := e.Start(got.render)
	require.NoError(t, err)
	got = nil

	require.NoError(t, e.Dispatch(h, pad.Point{}, got.render))
	assert.Empty(t, got)
}

func TestDispatch_UnknownHandle(t *testing.T) {
	e := New(Options{Frames: 1, Radius: 5}, nil)
	other := New(Options{Frames: 1, Radius: 5}, nil)
	h, err := other.Start(func(pad.DrawList) {})
	require.NoError(t, err)

	assert.ErrorIs(t, e.Dispatch(h, pad.Point{}, func(pad.DrawList) {}), pad.ErrUnknownHandle)
	assert.ErrorIs(t, e.Dispatch("session", pad.Point{}, func(pad.DrawList) {}), pad.ErrUnknownHandle)
}

func TestDispatch_OffCanvasClickPassesThrough(t *testing.T) {
	var got frames
	e := New(Options{Frames: 1, Radius: 3}, nil)
	h, err := e.Start(got.render)
	require.NoError(t, err)
	got = nil

	require.NoError(t, e.Dispatch(h, pad.Point{X: 1000, Y: -1000}, got.render))
	require.Len(t, got, 1)
	assert.True(t, contains(got[0][LayerClicks], pad.Point{X: 1000, Y: -1000}))
}

func TestCircle_SamplesCircumference(t *testing.T) {
	l := circle(pad.Point{X: 1, Y: 1}, 10)
	assert.True(t, contains(l, pad.Point{X: 11, Y: 1}))
	assert.True(t, contains(l, pad.Point{X: 1, Y: -9}))
	assert.Equal(t, pad.Layer{{X: 2, Y: 2}}, circle(pad.Point{X: 2, Y: 2}, 0))
}
