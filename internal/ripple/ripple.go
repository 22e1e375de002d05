// Package ripple is a small demonstration engine for the pad: every click
// spawns a ring that eases outward over a handful of frames.
package ripple

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Garsondee/Galaxy-Pad/internal/pad"
)

// Layer indices, front-most first.
const (
	LayerClicks = iota
	LayerActive
	LayerSettled
	LayerAxes
	layerCount
)

const (
	axisDotSpacing = 4
	markerArm      = 2
)

// Options tune the ring animation.
type Options struct {
	Frames int     // frames rendered per click
	Radius float64 // final ring radius in pixels
	Step   float64 // tween seconds advanced per frame
}

// Engine implements pad.Engine.
type Engine struct {
	opts   Options
	log    *slog.Logger
	axes   pad.Layer
	nextID int
}

// Session is the handle returned by Start.
type Session struct {
	id      int
	engine  *Engine
	clicks  []pad.Point
	settled []ring
}

type ring struct {
	center pad.Point
	radius float64
}

// New returns an engine. A nil logger discards progress messages.
func New(opts Options, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Step <= 0 && opts.Frames > 0 {
		opts.Step = 1 / float64(opts.Frames)
	}
	return &Engine{opts: opts, log: log, axes: axes()}
}

// Start creates a session and renders the empty board.
func (e *Engine) Start(render pad.Renderer) (pad.Handle, error) {
	e.log.Info("ripple: entered entry point")
	e.nextID++
	s := &Session{id: e.nextID, engine: e}
	e.log.Info("ripple: session initialised", "session", s.id)
	render(s.frame(nil))
	return s, nil
}

// Dispatch records the click and renders Frames frames of the ring expanding
// around it. The final frame has the finished ring on LayerSettled.
func (e *Engine) Dispatch(h pad.Handle, click pad.Point, render pad.Renderer) error {
	s, ok := h.(*Session)
	if !ok || s.engine != e {
		return fmt.Errorf("%w: %T", pad.ErrUnknownHandle, h)
	}
	s.clicks = append(s.clicks, click)

	duration := float32(e.opts.Step * float64(e.opts.Frames))
	tw := gween.New(0, float32(e.opts.Radius), duration, ease.OutCubic)
	for i := 0; i < e.opts.Frames-1; i++ {
		r, _ := tw.Update(float32(e.opts.Step))
		render(s.frame(&ring{center: click, radius: float64(r)}))
	}
	// The last frame shows the ring at full radius on the settled layer.
	s.settled = append(s.settled, ring{center: click, radius: e.opts.Radius})
	if e.opts.Frames > 0 {
		render(s.frame(nil))
	}
	e.log.Debug("ripple: click handled", "session", s.id, "x", click.X, "y", click.Y, "rings", len(s.settled))
	return nil
}

// Clicks returns the clicks recorded by the session, oldest first.
func (s *Session) Clicks() []pad.Point { return s.clicks }

func (s *Session) frame(active *ring) pad.DrawList {
	dl := make(pad.DrawList, layerCount)
	for _, c := range s.clicks {
		dl[LayerClicks] = append(dl[LayerClicks], marker(c)...)
	}
	if active != nil {
		dl[LayerActive] = circle(active.center, active.radius)
	}
	for _, r := range s.settled {
		dl[LayerSettled] = append(dl[LayerSettled], circle(r.center, r.radius)...)
	}
	dl[LayerAxes] = s.engine.axes
	return dl
}

// circle rasterises a ring by sampling its circumference about once per pixel.
func circle(c pad.Point, r float64) pad.Layer {
	if r < 0.5 {
		return pad.Layer{c}
	}
	n := int(math.Ceil(2 * math.Pi * r))
	if n < 8 {
		n = 8
	}
	out := make(pad.Layer, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		out = append(out, pad.Point{
			X: c.X + int64(math.Round(r*math.Cos(a))),
			Y: c.Y + int64(math.Round(r*math.Sin(a))),
		})
	}
	return out
}

func marker(c pad.Point) pad.Layer {
	out := pad.Layer{c}
	for d := int64(1); d <= markerArm; d++ {
		out = append(out,
			pad.Point{X: c.X - d, Y: c.Y},
			pad.Point{X: c.X + d, Y: c.Y},
			pad.Point{X: c.X, Y: c.Y - d},
			pad.Point{X: c.X, Y: c.Y + d},
		)
	}
	return out
}

func axes() pad.Layer {
	var out pad.Layer
	for v := int64(-pad.Width / 2); v < pad.Width/2; v += axisDotSpacing {
		out = append(out, pad.Point{X: v, Y: 0})
	}
	for v := int64(-pad.Height / 2); v < pad.Height/2; v += axisDotSpacing {
		if v == 0 {
			continue
		}
		out = append(out, pad.Point{X: 0, Y: v})
	}
	return out
}
