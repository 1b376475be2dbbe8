// SPDX-License-Identifier: EPL-2.0

// Package diag carries debug trace lines from the library components to the
// host. Components never log on their own; they write to a Sink.
package diag

import (
	"context"
	"fmt"
	"log/slog"
)

// Sink receives one trace line per call. Implementations must be safe for
// concurrent use.
type Sink interface {
	WriteLine(component, message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(component, message string)

func (f SinkFunc) WriteLine(component, message string) { f(component, message) }

type discard struct{}

func (discard) WriteLine(string, string) {}

// Discard drops every line.
var Discard Sink = discard{}

type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a Sink that logs each line at debug level with a
// component attribute. A nil logger means slog.Default.
func NewSlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return slogSink{logger: logger}
}

func (s slogSink) WriteLine(component, message string) {
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, message,
		slog.String("component", component))
}

// WriteLine formats a line and hands it to s. A nil sink is ignored and a
// panicking sink is contained, so diagnostics can never fail the caller.
func WriteLine(s Sink, component, format string, args ...any) {
	if s == nil {
		return
	}
	defer func() { _ = recover() }()
	s.WriteLine(component, fmt.Sprintf(format, args...))
}
