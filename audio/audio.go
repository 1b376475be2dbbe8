// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"time"

	"github.com/ik5/wavsource/formats/wav"
)

// ByteStream is the host's seekable byte source. Components borrow it and
// never close it.
type ByteStream interface {
	io.ReadSeeker
}

// State is the lifecycle state of a media source.
type State int32

const (
	StateCreated State = iota
	StateOpening
	StateStarted
	StatePaused
	StateStopped
	StateShutdown
	StateError
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateOpening:
		return "opening"
	case StateStarted:
		return "started"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateShutdown:
		return "shutdown"
	case StateError:
		return "error"
	}
	return "unknown"
}

// MediaSource is the capability set a resolved stream exposes to the
// playback pipeline.
type MediaSource interface {
	// RequestSample returns the next buffer of PCM frames. At the end of the
	// data it returns an error matching io.EOF.
	RequestSample() (SampleBuffer, error)
	// Seek moves the read position to t, clamped to the source duration.
	Seek(t time.Duration) error

	Pause() error
	Resume() error
	Stop() error
	// Shutdown releases the source. It is idempotent.
	Shutdown() error

	State() State
	Format() wav.Format
	Duration() time.Duration
}
