package pad

import (
	"fmt"
	"log/slog"
)

// Renderer receives one frame from the engine. Engines may call it any number
// of times from inside Start or Dispatch.
type Renderer func(DrawList)

// Engine is the external simulation driven by the pad.
//
// Start brings the engine online and returns a handle for later clicks.
// Dispatch delivers one click; it is never called again for the same handle
// until the previous call has returned.
type Engine interface {
	Start(render Renderer) (Handle, error)
	Dispatch(h Handle, click Point, render Renderer) error
}

// startEngine calls e.Start, converting a panic into an error.
func startEngine(e Engine, render Renderer, log *slog.Logger) (h Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEnginePanic, r)
		}
		if err != nil {
			log.Error("engine start failed", "error", err)
		}
	}()
	return e.Start(render)
}

// dispatchEngine calls e.Dispatch, converting a panic into an error.
func dispatchEngine(e Engine, h Handle, click Point, render Renderer, log *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEnginePanic, r)
		}
		if err != nil {
			log.Error("engine dispatch failed", "x", click.X, "y", click.Y, "error", err)
		}
	}()
	return e.Dispatch(h, click, render)
}
