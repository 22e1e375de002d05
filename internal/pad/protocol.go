package pad

import (
	"fmt"
	"log/slog"
	"time"
)

// State is the lifecycle position of the worker protocol.
type State int32

const (
	// Idle: the engine has not been started.
	Idle State = iota
	// Busy: an engine call is in flight.
	Busy
	// Ready: the engine is online and waiting for the next click.
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// legalTransitions lists every edge the protocol may take.
var legalTransitions = map[State][]State{
	Idle:  {Busy},
	Busy:  {Ready, Idle},
	Ready: {Busy},
}

type startResult struct {
	handle Handle
	err    error
}

// Protocol serialises access to the engine: at most one engine call is in
// flight. A request handled while Busy is rejected with ErrBusy. In practice
// that happens during an engine start, which runs off the handling goroutine;
// a dispatch runs on it, so requests arriving meanwhile wait in the Worker's
// inbox and are handled in arrival order.
//
// Handle and Started must be called from a single goroutine. Engine start runs
// through spawn, off that goroutine; its result comes back through Started.
type Protocol struct {
	state   State
	engine  Engine
	handle  Handle
	send    func(Response)
	spawn   func(func() startResult)
	log     *slog.Logger
	metrics *Metrics
}

func newProtocol(engine Engine, send func(Response), spawn func(func() startResult), log *slog.Logger, metrics *Metrics) *Protocol {
	return &Protocol{
		state:   Idle,
		engine:  engine,
		send:    send,
		spawn:   spawn,
		log:     log,
		metrics: metrics,
	}
}

// State returns the current protocol state.
func (p *Protocol) State() State { return p.state }

// Handle processes one inbound request.
func (p *Protocol) Handle(req Request) {
	p.metrics.request(RequestKind(req))

	switch p.state {
	case Idle:
		if _, ok := req.(InitRequest); !ok {
			p.reject(ErrNotStarted)
			return
		}
		p.transition(Busy)
		p.log.Info("starting engine")
		p.spawn(func() startResult {
			h, err := startEngine(p.engine, p.render, p.log)
			return startResult{handle: h, err: err}
		})

	case Busy:
		p.reject(ErrBusy)

	case Ready:
		p.transition(Busy)
		switch r := req.(type) {
		case ClickRequest:
			p.dispatch(r.Point)
		default:
			p.reject(fmt.Errorf("%w: %s", ErrMalformed, RequestKind(req)))
		}
		p.transition(Ready)
	}
}

// Started completes an engine start launched by Handle.
func (p *Protocol) Started(res startResult) {
	if p.state != Busy {
		p.log.Error("engine start completed outside busy state", "state", p.state)
		return
	}
	if res.err != nil {
		p.metrics.engineError("start")
		p.transition(Idle)
		p.reject(fmt.Errorf("%w: %w", ErrStartFailed, res.err))
		return
	}
	p.handle = res.handle
	p.transition(Ready)
	p.log.Info("engine ready")
}

func (p *Protocol) dispatch(click Point) {
	start := time.Now()
	err := dispatchEngine(p.engine, p.handle, click, p.render, p.log)
	p.metrics.observeDispatch(time.Since(start))
	if err != nil {
		p.metrics.engineError("dispatch")
		p.reject(fmt.Errorf("%w: %w", ErrDispatchFailed, err))
	}
}

// render relays one engine frame. It may run on the start goroutine.
func (p *Protocol) render(dl DrawList) {
	p.metrics.frame()
	p.send(LayersResponse{Layers: dl.Clone()})
}

func (p *Protocol) reject(err error) {
	p.metrics.reject(err)
	p.log.Info("request rejected", "state", p.state, "reason", err)
	p.send(ErrResponse{Err: err})
}

// transition moves to the next state if the edge is legal.
func (p *Protocol) transition(to State) {
	for _, s := range legalTransitions[p.state] {
		if s == to {
			p.log.Debug("protocol transition", "from", p.state, "to", to)
			p.state = to
			return
		}
	}
	p.log.Error("illegal protocol transition", "from", p.state, "to", to)
}
