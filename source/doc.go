// SPDX-License-Identifier: EPL-2.0

// Package source implements a PCM WAV media source over a borrowed,
// seekable byte stream.
//
// A Source parses the header on Open and then hands out fixed-duration
// buffers of whole frames:
//
//	src := source.New(source.WithBufferDuration(20 * time.Millisecond))
//	if err := src.Open(stream); err != nil {
//	    return err // wraps source.ErrInvalidFormat
//	}
//	defer src.Shutdown()
//
//	for {
//	    buf, err := src.RequestSample()
//	    if errors.Is(err, source.ErrEndOfStream) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    sink.Play(buf)
//	}
//
// # States
//
// A source moves through Created, Opening, Started, Paused, Stopped and
// Shutdown, or lands in Error when Open fails. Samples are only delivered
// while Started. Seek is allowed in Started, Paused and Stopped and keeps
// the state. Stop rewinds to the first frame. Shutdown is final and
// idempotent.
//
// # Concurrency
//
// All methods are safe for concurrent use. Operations are serialized, except
// that Shutdown is visible through State immediately and a RequestSample
// that races with it returns ErrInvalidState instead of data.
//
// The stream is never closed; it belongs to the caller.
package source
