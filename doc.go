// SPDX-License-Identifier: EPL-2.0

// Package wavsource turns seekable byte streams into playable PCM WAV media
// sources.
//
// The work is split across subpackages:
//   - formats/wav parses and writes RIFF/WAVE headers
//   - source streams time-stamped sample buffers from a parsed stream
//   - handler exposes the asynchronous begin/end resolution protocol
//   - audio holds the shared types and the handler registry
//
// # Quick Start
//
// Resolve drives the two-phase protocol and waits for the outcome:
//
//	file, _ := os.Open("tone.wav")
//	defer file.Close()
//
//	src, err := wavsource.Resolve(ctx, nil, file, "file://tone.wav")
//	if err != nil {
//	    return err // errors.Is(err, source.ErrInvalidFormat) for non-WAV input
//	}
//	defer src.Shutdown()
//
//	for {
//	    buf, err := src.RequestSample()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
//
// # Re-encoding
//
// Render pulls every buffer from a source and writes a new WAV file
// through the go-audio encoder:
//
//	out, _ := os.Create("copy.wav")
//	n, err := wavsource.Render(src, out)
//
// # Ownership
//
// Streams are borrowed and never closed. A source returned by Resolve
// belongs to the caller, who must call Shutdown.
package wavsource
