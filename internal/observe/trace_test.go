// SPDX-License-Identifier: EPL-2.0

package observe

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracer_UsesProvider(t *testing.T) {
	t.Parallel()

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := Tracer(tp).Start(context.Background(), "wavsource.create")
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "wavsource.create" {
		t.Errorf("span name = %q", spans[0].Name)
	}
	if spans[0].InstrumentationScope.Name != scopeName {
		t.Errorf("scope = %q, want %q", spans[0].InstrumentationScope.Name, scopeName)
	}
}

func TestTracer_NilFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	if Tracer(nil) == nil {
		t.Error("Tracer(nil) = nil")
	}
}
