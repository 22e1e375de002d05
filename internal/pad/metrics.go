package pad

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts protocol traffic. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	frames       prometheus.Counter
	engineErrors *prometheus.CounterVec
	dispatch     prometheus.Histogram
}

// NewMetrics creates the pad collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "galaxypad_requests_total",
				Help: "Requests received by the worker, by kind.",
			},
			[]string{"kind"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "galaxypad_rejections_total",
				Help: "Requests answered with an error response, by reason.",
			},
			[]string{"reason"},
		),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "galaxypad_frames_total",
			Help: "Draw lists relayed from the engine.",
		}),
		engineErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "galaxypad_engine_errors_total",
				Help: "Engine calls that failed or panicked, by operation.",
			},
			[]string{"op"},
		),
		dispatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "galaxypad_dispatch_duration_seconds",
			Help:    "Wall time of engine click dispatches.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.rejections, m.frames, m.engineErrors, m.dispatch)
	}
	return m
}

func (m *Metrics) request(kind string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind).Inc()
}

func (m *Metrics) reject(err error) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(ErrorReason(err)).Inc()
}

func (m *Metrics) frame() {
	if m == nil {
		return
	}
	m.frames.Inc()
}

func (m *Metrics) engineError(op string) {
	if m == nil {
		return
	}
	m.engineErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) observeDispatch(d time.Duration) {
	if m == nil {
		return
	}
	m.dispatch.Observe(d.Seconds())
}

// ErrorReason names the protocol error class of err for metrics and reports.
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrNotStarted):
		return "not_started"
	case errors.Is(err, ErrStartFailed):
		return "start_failed"
	case errors.Is(err, ErrDispatchFailed):
		return "dispatch_failed"
	default:
		return "other"
	}
}
