package pad

import "errors"

var (
	// ErrBusy rejects a request that arrived while an engine call was in flight.
	ErrBusy = errors.New("already working, ignoring message")
	// ErrMalformed rejects a request the protocol does not understand in its current state.
	ErrMalformed = errors.New("unknown message received")
	// ErrNotStarted rejects a request sent before the engine was initialised.
	ErrNotStarted = errors.New("engine not started")
	// ErrStartFailed reports that the engine could not be brought online.
	ErrStartFailed = errors.New("engine start failed")
	// ErrDispatchFailed reports that the engine failed while handling a click.
	ErrDispatchFailed = errors.New("engine dispatch failed")
	// ErrEnginePanic wraps a panic recovered at the engine boundary.
	ErrEnginePanic = errors.New("engine panic")
	// ErrColorCount is returned when layers and colours are not paired one to one.
	ErrColorCount = errors.New("layer and colour counts differ")
	// ErrInboxFull is returned by Worker.Send when the request queue is saturated.
	ErrInboxFull = errors.New("worker inbox full")
	// ErrUnknownHandle is returned by engines handed a handle they did not issue.
	ErrUnknownHandle = errors.New("unknown engine handle")
)
