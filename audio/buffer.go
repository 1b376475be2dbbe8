// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"time"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/wavsource/formats/wav"
)

// SampleBuffer is one block of PCM frames delivered by a media source.
// The caller owns Data.
type SampleBuffer struct {
	// Timestamp is the presentation time of the first frame.
	Timestamp time.Duration
	Duration  time.Duration
	// Data holds whole interleaved frames, little-endian as in the file.
	Data   []byte
	Format wav.Format
}

// Frames returns the number of frames in b.
func (b SampleBuffer) Frames() int {
	if b.Format.BlockAlign == 0 {
		return 0
	}
	return len(b.Data) / int(b.Format.BlockAlign)
}

// IntBuffer decodes b into a go-audio integer buffer.
//
// Values follow the go-audio conventions so the buffer can be handed to its
// encoders unchanged: 8-bit samples stay unsigned (0..255), wider samples are
// signed.
func (b SampleBuffer) IntBuffer() *goaudio.IntBuffer {
	bits := int(b.Format.BitsPerSample)
	out := &goaudio.IntBuffer{
		Format:         b.Format.AudioFormat(),
		SourceBitDepth: bits,
	}

	width := bits / 8
	if width == 0 {
		return out
	}
	n := len(b.Data) / width
	out.Data = make([]int, n)

	switch bits {
	case 8:
		for i := range n {
			out.Data[i] = int(b.Data[i])
		}
	case 16:
		for i := range n {
			out.Data[i] = int(int16(binary.LittleEndian.Uint16(b.Data[2*i:])))
		}
	case 24:
		for i := range n {
			out.Data[i] = int(goaudio.Int24LETo32(b.Data[3*i : 3*i+3]))
		}
	case 32:
		for i := range n {
			out.Data[i] = int(int32(binary.LittleEndian.Uint32(b.Data[4*i:])))
		}
	}

	return out
}
