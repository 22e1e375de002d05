package pad

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

const (
	defaultInboxSize  = 64
	defaultOutboxSize = 256
)

// Worker hosts the Protocol and the engine on a background goroutine.
// The interactive side talks to it only through Send and Drain/Responses.
type Worker struct {
	inbox   chan Request
	outbox  chan Response
	started chan startResult
	done    chan struct{}

	proto   *Protocol
	state   atomic.Int32
	log     *slog.Logger
	metrics *Metrics

	inboxSize  int
	outboxSize int
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.log = logger
	}
}

// WithMetrics attaches protocol metrics.
func WithMetrics(m *Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithInboxSize sets how many requests may wait for the worker loop.
func WithInboxSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.inboxSize = n
		}
	}
}

// WithOutboxSize sets how many responses may wait for the interactive side.
func WithOutboxSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.outboxSize = n
		}
	}
}

// NewWorker creates a worker for engine. Call Run to start it.
func NewWorker(engine Engine, opts ...Option) *Worker {
	w := &Worker{
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		inboxSize:  defaultInboxSize,
		outboxSize: defaultOutboxSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.inbox = make(chan Request, w.inboxSize)
	w.outbox = make(chan Response, w.outboxSize)
	w.started = make(chan startResult, 1)
	w.done = make(chan struct{})
	w.proto = newProtocol(engine, w.emit, w.spawn, w.log, w.metrics)
	w.state.Store(int32(Idle))
	return w
}

// Run processes requests until ctx is cancelled. It must be called once.
// A dispatch in progress always runs to completion before ctx is observed.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.done)
	w.log.Debug("worker running")
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("worker stopped", "reason", ctx.Err())
			return ctx.Err()
		case req := <-w.inbox:
			if w.proto.State() == Ready {
				// Handle moves Ready to Busy for the length of the dispatch.
				w.state.Store(int32(Busy))
			}
			w.proto.Handle(req)
		case res := <-w.started:
			w.proto.Started(res)
		}
		w.state.Store(int32(w.proto.State()))
	}
}

// Send queues a request without blocking. It returns ErrInboxFull when the
// worker has fallen behind; the caller owns any retry.
func (w *Worker) Send(req Request) error {
	select {
	case w.inbox <- req:
		return nil
	default:
		w.log.Warn("request dropped", "kind", RequestKind(req), "reason", ErrInboxFull)
		return ErrInboxFull
	}
}

// Responses exposes the response stream.
func (w *Worker) Responses() <-chan Response { return w.outbox }

// Drain returns every response currently waiting, without blocking.
func (w *Worker) Drain() []Response {
	var out []Response
	for {
		select {
		case r := <-w.outbox:
			out = append(out, r)
		default:
			return out
		}
	}
}

// State returns the protocol state. It reports Busy while a start or a
// dispatch is running.
func (w *Worker) State() State { return State(w.state.Load()) }

func (w *Worker) emit(resp Response) {
	select {
	case w.outbox <- resp:
	case <-w.done:
	}
}

func (w *Worker) spawn(start func() startResult) {
	go func() {
		res := start()
		select {
		case w.started <- res:
		case <-w.done:
		}
	}()
}
