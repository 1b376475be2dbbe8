// SPDX-License-Identifier: EPL-2.0

// Package audio defines the types shared between the WAV container parser,
// the media source and the resolution handler.
//
// # Media Sources
//
// A MediaSource delivers decoded PCM in fixed-duration blocks:
//
//	type MediaSource interface {
//	    RequestSample() (SampleBuffer, error)
//	    Seek(t time.Duration) error
//	    Pause() error
//	    Resume() error
//	    Stop() error
//	    Shutdown() error
//	    State() State
//	    Format() wav.Format
//	    Duration() time.Duration
//	}
//
// RequestSample returns io.EOF once the data region is exhausted and keeps
// returning it until the source is seeked or stopped:
//
//	for {
//	    buf, err := src.RequestSample()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    play(buf.Timestamp, buf.Data)
//	}
//
// # Sample Buffers
//
// SampleBuffer.Data holds whole interleaved frames exactly as they appear in
// the file. IntBuffer converts them into a go-audio buffer for processing or
// re-encoding.
//
// # Handler Registry
//
// Registry maps file extensions to handler identifiers:
//
//	registry := audio.NewRegistry()
//	registry.Register(".wav", handler.ID, handler.Description)
//	regs, ok := registry.Lookup("WAV")
//
// Extensions are normalized to lower case with a leading dot.
package audio
