// SPDX-License-Identifier: EPL-2.0

package handler

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ik5/wavsource/diag"
	"github.com/ik5/wavsource/source"
)

// Option configures a Handler.
type Option func(*Handler)

// WithExecutor sets where creation work runs. The default is GoExecutor.
func WithExecutor(e Executor) Option {
	return func(h *Handler) {
		if e != nil {
			h.executor = e
		}
	}
}

// WithSink sets the diagnostics sink for the handler and the sources it
// creates.
func WithSink(sink diag.Sink) Option {
	return func(h *Handler) {
		if sink != nil {
			h.sink = sink
		}
	}
}

// WithMeterProvider sets the meter provider for the handler and the sources
// it creates.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(h *Handler) {
		h.meterProvider = mp
	}
}

// WithTracerProvider sets the tracer provider for creation spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Handler) {
		h.tracerProvider = tp
	}
}

// WithSourceOptions appends options applied to every created source.
func WithSourceOptions(opts ...source.Option) Option {
	return func(h *Handler) {
		h.sourceOpts = append(h.sourceOpts, opts...)
	}
}
