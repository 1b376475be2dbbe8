// SPDX-License-Identifier: EPL-2.0

// Package observe holds the OpenTelemetry instruments and tracer used by the
// media source and the resolution handler.
//
// Components take a [metric.MeterProvider] and a [trace.TracerProvider]
// through their options and fall back to the global providers, which are
// no-ops unless the host installs real ones. Tests should build their own
// providers with [NewMetrics] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// scopeName is the instrumentation scope for all wavsource telemetry.
const scopeName = "github.com/ik5/wavsource"

// Resolution outcomes recorded in the status attribute.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the metric instruments. All fields are safe for concurrent
// use.
type Metrics struct {
	// Resolutions counts completed creations. Use with attribute:
	//   attribute.String("status", ...)
	Resolutions metric.Int64Counter

	// ResolutionDuration tracks time from BeginCreate to completion.
	ResolutionDuration metric.Float64Histogram

	// ActiveSources tracks opened sources that have not been shut down.
	ActiveSources metric.Int64UpDownCounter

	// SampleBytes counts PCM bytes delivered by RequestSample.
	SampleBytes metric.Int64Counter
}

// resolutionBuckets are histogram boundaries in seconds. Resolution is a
// header parse, so most land in the first few buckets.
var resolutionBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1,
}

// NewMetrics creates the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(scopeName)
	var err error
	met := &Metrics{}

	if met.Resolutions, err = m.Int64Counter("wavsource.resolutions",
		metric.WithDescription("Completed stream resolutions by status."),
	); err != nil {
		return nil, err
	}
	if met.ResolutionDuration, err = m.Float64Histogram("wavsource.resolution.duration",
		metric.WithDescription("Latency of stream resolution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(resolutionBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ActiveSources, err = m.Int64UpDownCounter("wavsource.sources.active",
		metric.WithDescription("Number of open media sources."),
	); err != nil {
		return nil, err
	}
	if met.SampleBytes, err = m.Int64Counter("wavsource.samples.bytes",
		metric.WithDescription("PCM bytes delivered to the pipeline."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments on the global meter provider, created
// on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// MetricsFor returns instruments for mp, or DefaultMetrics when mp is nil or
// instrument creation fails.
func MetricsFor(mp metric.MeterProvider) *Metrics {
	if mp == nil {
		return DefaultMetrics()
	}
	m, err := NewMetrics(mp)
	if err != nil {
		return DefaultMetrics()
	}
	return m
}

// RecordResolution records one completed resolution and its latency.
func (m *Metrics) RecordResolution(ctx context.Context, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.Resolutions.Add(ctx, 1, attrs)
	m.ResolutionDuration.Record(ctx, elapsed.Seconds(), attrs)
}
