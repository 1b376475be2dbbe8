// SPDX-License-Identifier: EPL-2.0

package source

import (
	"errors"
	"io"
)

var (
	// ErrAlreadyOpened is returned by Open on a source that was opened
	// before, successfully or not.
	ErrAlreadyOpened = errors.New("source already opened")

	// ErrInvalidFormat is returned by Open when the stream is not a playable
	// PCM WAV stream. It wraps the formats/wav error.
	ErrInvalidFormat = errors.New("invalid WAV stream")

	// ErrInvalidState is returned for an operation the current state does
	// not allow.
	ErrInvalidState = errors.New("operation invalid in current state")

	// ErrEndOfStream is returned by RequestSample once the data region is
	// exhausted. It is io.EOF so pipelines can use their usual loop.
	ErrEndOfStream = io.EOF

	// ErrStreamIO wraps read and seek failures of the borrowed stream.
	ErrStreamIO = errors.New("stream I/O error")

	// ErrInternal is returned when an operation panicked.
	ErrInternal = errors.New("internal source error")
)
