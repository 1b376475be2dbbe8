// SPDX-License-Identifier: EPL-2.0

package source

import (
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/ik5/wavsource/diag"
)

// DefaultBufferDuration is the playing time of one sample buffer.
const DefaultBufferDuration = 100 * time.Millisecond

// Option configures a Source.
type Option func(*Source)

// WithBufferDuration sets the playing time delivered per RequestSample. It
// is rounded down to whole frames, with a minimum of one frame. Values <= 0
// keep the default.
func WithBufferDuration(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.quantum = d
		}
	}
}

// WithSink sets the diagnostics sink.
func WithSink(sink diag.Sink) Option {
	return func(s *Source) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithMeterProvider sets the provider for the source metrics. The global
// provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Source) {
		s.meterProvider = mp
	}
}
