package deliberate

import (
	"time"

	"github.com/dshills/consensus-go/emit"
)

// DefaultCallTimeout bounds each completion call unless overridden. It
// exists so one stalled agent cannot block a whole stage indefinitely; a
// timed-out unit is recorded as a failed artifact, never a session failure.
const DefaultCallTimeout = 2 * time.Minute

// options holds session configuration assembled from Option values.
type options struct {
	sessionID   string
	callTimeout time.Duration
	emitter     emit.Emitter
	metrics     *PrometheusMetrics
}

// Option configures a session.
type Option func(*options)

// WithSessionID fixes the session identifier instead of generating one.
// Useful for correlating events and transcripts with external systems.
func WithSessionID(id string) Option {
	return func(o *options) { o.sessionID = id }
}

// WithCallTimeout bounds each individual completion call. Zero disables the
// per-call timeout entirely; the overall context deadline still applies.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) { o.callTimeout = d }
}

// WithEmitter sets the observability emitter. Defaults to a NullEmitter.
func WithEmitter(em emit.Emitter) Option {
	return func(o *options) {
		if em != nil {
			o.emitter = em
		}
	}
}

// WithMetrics enables Prometheus metrics collection for the session.
func WithMetrics(pm *PrometheusMetrics) Option {
	return func(o *options) { o.metrics = pm }
}

func defaultOptions() options {
	return options{
		callTimeout: DefaultCallTimeout,
		emitter:     emit.NewNullEmitter(),
	}
}
