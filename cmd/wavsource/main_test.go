// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/wavsource/formats/wav"
	"github.com/ik5/wavsource/handler"
	"github.com/ik5/wavsource/internal/audiotest"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestProbe(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "tone.wav", audiotest.Silence(8000, 1, 16, 8000))
	stereo := writeFile(t, dir, "stereo.wav", audiotest.Silence(44100, 2, 16, 22050))
	bad := writeFile(t, dir, "notes.txt", []byte("not audio at all"))

	code, out, _ := runCLI(t, "probe", good, stereo)
	if code != 0 {
		t.Fatalf("probe exit code = %d, output %q", code, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("probe printed %d lines: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], good+": PCM 8000 Hz, 1 ch, 16 bit") || !strings.HasSuffix(lines[0], ", 1s") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], stereo+": PCM 44100 Hz, 2 ch") || !strings.HasSuffix(lines[1], ", 500ms") {
		t.Errorf("line 1 = %q", lines[1])
	}

	code, out, _ = runCLI(t, "probe", good, bad, filepath.Join(dir, "missing.wav"))
	if code != 1 {
		t.Errorf("probe with failures exit code = %d, want 1", code)
	}
	if !strings.Contains(out, bad+": error:") || !strings.Contains(out, "missing.wav: error:") {
		t.Errorf("probe output %q does not report the failures", out)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	samples := audiotest.PCM16(audiotest.Sine(8000, 4000, 440))
	in := writeFile(t, dir, "in.wav", audiotest.WAV{
		Channels:      1,
		SampleRate:    8000,
		BitsPerSample: 16,
		Extra:         []audiotest.Chunk{{ID: "LIST", Data: []byte("INFOISFT\x05\x00\x00\x00test\x00")}},
		Data:          samples,
	}.Bytes())
	outPath := filepath.Join(dir, "out.wav")

	code, out, errOut := runCLI(t, "render", in, outPath)
	if code != 0 {
		t.Fatalf("render exit code = %d, stderr %q", code, errOut)
	}
	if want := fmt.Sprintf("%s: %d bytes of PCM", outPath, len(samples)); !strings.Contains(out, want) {
		t.Errorf("render output %q, want %q", out, want)
	}

	rendered, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	f, err := wav.ParseHeader(bytes.NewReader(rendered))
	if err != nil {
		t.Fatalf("ParseHeader(rendered) error = %v", err)
	}
	if !bytes.Equal(rendered[f.DataOffset:f.DataOffset+f.DataLength], samples) {
		t.Error("rendered samples differ")
	}
}

func TestRegistrationCommands(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	regPath := filepath.Join(dir, "handlers.yaml")
	cfgPath := writeFile(t, dir, "wavsource.yaml", []byte("registry:\n  path: "+regPath+"\n"))

	if code, _, errOut := runCLI(t, "-config", cfgPath, "register"); code != 0 {
		t.Fatalf("register exit code = %d, stderr %q", code, errOut)
	}

	code, out, _ := runCLI(t, "-config", cfgPath, "handlers")
	if code != 0 {
		t.Fatalf("handlers exit code = %d", code)
	}
	want := ".wav\t" + handler.ID.String() + "\t" + handler.Description
	if !strings.Contains(out, want) {
		t.Errorf("handlers output %q, want %q", out, want)
	}

	if code, _, _ := runCLI(t, "-config", cfgPath, "unregister"); code != 0 {
		t.Fatalf("unregister exit code = %d", code)
	}
	if code, _, _ := runCLI(t, "-config", cfgPath, "unregister"); code != 1 {
		t.Errorf("second unregister exit code = %d, want 1", code)
	}
	if _, out, _ := runCLI(t, "-config", cfgPath, "handlers"); strings.TrimSpace(out) != "" {
		t.Errorf("handlers after unregister printed %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"play"}, 2},
		{"probe without files", []string{"probe"}, 2},
		{"render missing output", []string{"render", "in.wav"}, 2},
		{"handlers with arguments", []string{"handlers", "extra"}, 2},
		{"bad flag", []string{"-x"}, 2},
		{"missing config", []string{"-config", "/nonexistent/wavsource.yaml", "handlers"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if code, _, _ := runCLI(t, tt.args...); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
		})
	}
}
