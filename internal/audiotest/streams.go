// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"errors"
	"io"
)

// ErrInjected is returned by the faulty streams below.
var ErrInjected = errors.New("audiotest: injected failure")

// UnsizedStream hides the length of its data: seeking relative to the end
// fails, as it does for live network streams.
type UnsizedStream struct {
	*bytes.Reader
}

// NewUnsizedStream returns an UnsizedStream over data.
func NewUnsizedStream(data []byte) *UnsizedStream {
	return &UnsizedStream{Reader: bytes.NewReader(data)}
}

func (s *UnsizedStream) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekEnd {
		return 0, errors.New("audiotest: stream length unknown")
	}
	return s.Reader.Seek(offset, whence)
}

// FailingStream reads normally up to FailAt bytes, then returns
// ErrInjected.
type FailingStream struct {
	*bytes.Reader
	FailAt int64
}

// NewFailingStream returns a FailingStream over data.
func NewFailingStream(data []byte, failAt int64) *FailingStream {
	return &FailingStream{Reader: bytes.NewReader(data), FailAt: failAt}
}

func (s *FailingStream) Read(p []byte) (int, error) {
	pos := s.Reader.Size() - int64(s.Reader.Len())
	if pos >= s.FailAt {
		return 0, ErrInjected
	}
	if limit := s.FailAt - pos; int64(len(p)) > limit {
		p = p[:limit]
	}
	return s.Reader.Read(p)
}
