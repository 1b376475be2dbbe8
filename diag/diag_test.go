// SPDX-License-Identifier: EPL-2.0

package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestSlogSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	WriteLine(NewSlogSink(logger), "source", "opened %d bytes", 16000)

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "opened 16000 bytes", "component=source"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestSlogSink_FilteredByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	NewSlogSink(logger).WriteLine("handler", "hidden")

	if buf.Len() != 0 {
		t.Errorf("debug line written at info level: %q", buf.String())
	}
}

func TestWriteLine_NilAndPanickingSinks(t *testing.T) {
	t.Parallel()

	WriteLine(nil, "source", "ignored")
	WriteLine(SinkFunc(func(string, string) { panic("boom") }), "source", "contained")
	WriteLine(Discard, "source", "dropped")
}

func TestSinkFunc_Concurrent(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		lines []string
	)
	sink := SinkFunc(func(component, message string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, component+": "+message)
	})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			WriteLine(sink, "handler", "line %d", i)
		}()
	}
	wg.Wait()

	if len(lines) != 8 {
		t.Errorf("got %d lines, want 8", len(lines))
	}
}
