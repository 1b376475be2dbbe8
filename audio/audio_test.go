// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

var (
	wavHandler = uuid.MustParse("b2c8b1af-a0cc-4a47-9f4c-9764cf1cbf6e")
	altHandler = uuid.MustParse("0a4c6e58-1f3b-4a56-9d2e-3f7c8b9a1d20")
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	if err := registry.Register(".wav", wavHandler, "WAVE source"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := registry.Lookup(".wav")
	if !ok {
		t.Fatal("Lookup() failed to retrieve registered handler")
	}
	if len(got) != 1 {
		t.Fatalf("Lookup() returned %d registrations, want 1", len(got))
	}
	if got[0].HandlerID != wavHandler || got[0].Description != "WAVE source" || got[0].Extension != ".wav" {
		t.Errorf("Lookup() = %+v", got[0])
	}
}

func TestRegistry_LookupNonExistent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	if _, ok := registry.Lookup(".flac"); ok {
		t.Error("Lookup() returned ok=true for unregistered extension")
	}
	if _, ok := registry.Lookup(""); ok {
		t.Error("Lookup() returned ok=true for empty extension")
	}
}

func TestRegistry_ExtensionNormalization(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	if err := registry.Register("WAV", wavHandler, "WAVE source"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for _, ext := range []string{"wav", ".wav", ".WAV", " Wav "} {
		if _, ok := registry.Lookup(ext); !ok {
			t.Errorf("Lookup(%q) ok = false, want true", ext)
		}
	}
}

func TestNormalizeExtension_Invalid(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"", ".", "  ", "a.b", "../wav", `dir\wav`} {
		if _, err := NormalizeExtension(ext); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("NormalizeExtension(%q) error = %v, want ErrInvalidExtension", ext, err)
		}
	}

	registry := NewRegistry()
	if err := registry.Register("", wavHandler, "x"); !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("Register(\"\") error = %v, want ErrInvalidExtension", err)
	}
}

func TestRegistry_MultipleHandlers(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(".wav", wavHandler, "WAVE source")
	registry.Register(".wav", altHandler, "other")
	registry.Register(".aif", altHandler, "other")

	got, ok := registry.Lookup(".wav")
	if !ok || len(got) != 2 {
		t.Fatalf("Lookup(.wav) = %v, %v; want two registrations", got, ok)
	}
	// Ordered by handler id.
	if got[0].HandlerID != altHandler || got[1].HandlerID != wavHandler {
		t.Errorf("Lookup(.wav) order = %v, %v", got[0].HandlerID, got[1].HandlerID)
	}

	all := registry.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d registrations, want 3", len(all))
	}
	if all[0].Extension != ".aif" {
		t.Errorf("All()[0].Extension = %q, want .aif", all[0].Extension)
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(".wav", wavHandler, "first")
	registry.Register(".wav", wavHandler, "second")

	got, _ := registry.Lookup(".wav")
	if len(got) != 1 || got[0].Description != "second" {
		t.Errorf("Lookup() after overwrite = %+v, want one registration described \"second\"", got)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(".wav", wavHandler, "WAVE source")

	if err := registry.Unregister(".wav", altHandler); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Unregister(unknown id) error = %v, want ErrNotRegistered", err)
	}
	if err := registry.Unregister(".wav", wavHandler); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if _, ok := registry.Lookup(".wav"); ok {
		t.Error("Lookup() still finds the extension after its last handler was removed")
	}
	if err := registry.Unregister(".wav", wavHandler); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second Unregister() error = %v, want ErrNotRegistered", err)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	var wg sync.WaitGroup

	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register(".wav", wavHandler, "WAVE source")
		}()
		go func() {
			defer wg.Done()
			registry.Lookup(".wav")
			registry.All()
		}()
	}
	wg.Wait()

	got, ok := registry.Lookup(".wav")
	if !ok || len(got) != 1 {
		t.Errorf("Lookup() after concurrent operations = %v, %v", got, ok)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		StateCreated:  "created",
		StateOpening:  "opening",
		StateStarted:  "started",
		StatePaused:   "paused",
		StateStopped:  "stopped",
		StateShutdown: "shutdown",
		StateError:    "error",
		State(99):     "unknown",
	}

	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

// BenchmarkRegistry_Lookup benchmarks resolving an extension
func BenchmarkRegistry_Lookup(b *testing.B) {
	registry := NewRegistry()
	registry.Register(".wav", wavHandler, "WAVE source")

	b.ReportAllocs()

	for b.Loop() {
		registry.Lookup(".wav")
	}
}
