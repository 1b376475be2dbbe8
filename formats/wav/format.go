// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"time"

	goaudio "github.com/go-audio/audio"
)

// CanonicalHeaderSize is the size of a RIFF header, a 16 byte fmt chunk and
// a data chunk header. No valid file places its first sample byte earlier.
const CanonicalHeaderSize = 44

// FormatTag is the wFormatTag field of the fmt chunk.
type FormatTag uint16

const (
	TagPCM        FormatTag = 0x0001
	TagFloat      FormatTag = 0x0003
	TagALaw       FormatTag = 0x0006
	TagMuLaw      FormatTag = 0x0007
	TagExtensible FormatTag = 0xFFFE
)

func (t FormatTag) String() string {
	switch t {
	case TagPCM:
		return "PCM"
	case TagFloat:
		return "IEEE float"
	case TagALaw:
		return "A-law"
	case TagMuLaw:
		return "mu-law"
	case TagExtensible:
		return "extensible"
	}
	return fmt.Sprintf("0x%04x", uint16(t))
}

// Format describes a parsed WAV stream.
//
// Tag is the effective tag: an extensible header carrying the PCM sub-format
// reports TagPCM. BlockAlign and ByteRate are derived from the channel count,
// sample rate and bit depth rather than copied from the header, which is
// frequently wrong in the wild.
type Format struct {
	Tag           FormatTag
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	BlockAlign    uint16
	ByteRate      uint32

	// DataOffset is the stream offset of the first sample byte.
	DataOffset int64
	// DataLength is the effective length of the data chunk, clamped to the
	// bytes actually present in the stream.
	DataLength int64

	// RIFFSize is the size recorded in the RIFF header. It is not checked
	// against the stream length.
	RIFFSize uint32
}

// IsPCM reports whether f carries linear PCM samples.
func (f Format) IsPCM() bool { return f.Tag == TagPCM }

// Frames returns the number of whole sample frames in the data region.
func (f Format) Frames() int64 {
	if f.BlockAlign == 0 {
		return 0
	}
	return f.DataLength / int64(f.BlockAlign)
}

// Duration returns the playing time of the data region.
func (f Format) Duration() time.Duration {
	return FramesToDuration(f.Frames(), f.SampleRate)
}

// AudioFormat returns f as a go-audio format descriptor.
func (f Format) AudioFormat() *goaudio.Format {
	return &goaudio.Format{
		NumChannels: int(f.Channels),
		SampleRate:  int(f.SampleRate),
	}
}

func (f Format) String() string {
	return fmt.Sprintf("%s %d Hz, %d ch, %d bit, %d bytes at offset %d",
		f.Tag, f.SampleRate, f.Channels, f.BitsPerSample, f.DataLength, f.DataOffset)
}

// FramesToDuration converts a frame count at sampleRate to a duration
// without overflowing for any frame count a 32 bit data chunk can hold.
func FramesToDuration(frames int64, sampleRate uint32) time.Duration {
	if sampleRate == 0 || frames <= 0 {
		return 0
	}
	rate := int64(sampleRate)
	whole := frames / rate
	rest := frames % rate
	return time.Duration(whole)*time.Second + time.Duration(rest*int64(time.Second)/rate)
}

// DurationToFrames converts d to a whole frame count at sampleRate,
// rounding down.
func DurationToFrames(d time.Duration, sampleRate uint32) int64 {
	if sampleRate == 0 || d <= 0 {
		return 0
	}
	rate := int64(sampleRate)
	secs := int64(d / time.Second)
	rest := int64(d % time.Second)
	return secs*rate + rest*rate/int64(time.Second)
}
