// SPDX-License-Identifier: EPL-2.0

package wavsource

import (
	"errors"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/wavsource/audio"
)

// ErrNotOpen is returned by Render for a source without a format.
var ErrNotOpen = errors.New("wavsource: source is not open")

// Render writes every remaining buffer of src to ws as a PCM WAV file and
// returns the number of sample bytes written. The header is finalized when
// the source reaches the end of its data.
func Render(src audio.MediaSource, ws io.WriteSeeker) (int64, error) {
	f := src.Format()
	if f.BlockAlign == 0 {
		return 0, ErrNotOpen
	}

	enc := gowav.NewEncoder(ws, int(f.SampleRate), int(f.BitsPerSample), int(f.Channels), 1)

	var written int64
	for {
		buf, err := src.RequestSample()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = enc.Close()
			return written, fmt.Errorf("wavsource: render: %w", err)
		}

		if err := enc.Write(buf.IntBuffer()); err != nil {
			return written, fmt.Errorf("wavsource: render: encode: %w", err)
		}
		written += int64(len(buf.Data))
	}

	if err := enc.Close(); err != nil {
		return written, fmt.Errorf("wavsource: render: finalize: %w", err)
	}
	return written, nil
}
