// SPDX-License-Identifier: EPL-2.0

// Package audiotest builds RIFF/WAVE streams for tests.
//
// The builder writes bytes by hand rather than through formats/wav so that
// parser tests do not validate the parser against itself.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Chunk is an extra RIFF chunk placed between the fmt and data chunks.
type Chunk struct {
	ID   string
	Data []byte
}

// WAV describes a stream to build. Zero values give a canonical PCM file.
type WAV struct {
	Tag           uint16 // defaults to 1 (PCM)
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16

	// FmtSize overrides the declared fmt chunk size. 18 and 40 append an
	// extension; 40 writes a WAVE_FORMAT_EXTENSIBLE body with SubFormat.
	FmtSize   uint32
	SubFormat uint16

	// Extra chunks written after fmt, before data.
	Extra []Chunk

	// DataSize overrides the declared data chunk size.
	DataSize *uint32
	Data     []byte

	// RIFFSize overrides the declared RIFF size.
	RIFFSize *uint32
}

// Bytes encodes w.
func (w WAV) Bytes() []byte {
	tag := w.Tag
	if tag == 0 {
		tag = 1
	}
	fmtSize := w.FmtSize
	if fmtSize == 0 {
		fmtSize = 16
	}
	blockAlign := w.Channels * (w.BitsPerSample / 8)
	byteRate := w.SampleRate * uint32(blockAlign)

	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	body.WriteString("fmt ")
	binary.Write(body, binary.LittleEndian, fmtSize)
	fmtBody := new(bytes.Buffer)
	binary.Write(fmtBody, binary.LittleEndian, tag)
	binary.Write(fmtBody, binary.LittleEndian, w.Channels)
	binary.Write(fmtBody, binary.LittleEndian, w.SampleRate)
	binary.Write(fmtBody, binary.LittleEndian, byteRate)
	binary.Write(fmtBody, binary.LittleEndian, blockAlign)
	binary.Write(fmtBody, binary.LittleEndian, w.BitsPerSample)
	if fmtSize >= 40 {
		binary.Write(fmtBody, binary.LittleEndian, uint16(22))
		binary.Write(fmtBody, binary.LittleEndian, w.BitsPerSample)
		binary.Write(fmtBody, binary.LittleEndian, uint32(0)) // channel mask
		binary.Write(fmtBody, binary.LittleEndian, w.SubFormat)
		fmtBody.Write([]byte{
			0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00,
			0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
		})
	}
	for uint32(fmtBody.Len()) < fmtSize {
		fmtBody.WriteByte(0)
	}
	body.Write(fmtBody.Bytes()[:fmtSize])
	if fmtSize%2 == 1 {
		body.WriteByte(0)
	}

	for _, c := range w.Extra {
		body.WriteString(c.ID)
		binary.Write(body, binary.LittleEndian, uint32(len(c.Data)))
		body.Write(c.Data)
		if len(c.Data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	dataSize := uint32(len(w.Data))
	if w.DataSize != nil {
		dataSize = *w.DataSize
	}
	body.WriteString("data")
	binary.Write(body, binary.LittleEndian, dataSize)
	body.Write(w.Data)

	riffSize := uint32(body.Len())
	if w.RIFFSize != nil {
		riffSize = *w.RIFFSize
	}

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, riffSize)
	out.Write(body.Bytes())
	return out.Bytes()
}

// Size returns a pointer to v, for the DataSize and RIFFSize overrides.
func Size(v uint32) *uint32 { return &v }

// Mono16 returns a canonical mono 16-bit PCM file holding samples.
func Mono16(sampleRate uint32, samples []int16) []byte {
	return WAV{
		Channels:      1,
		SampleRate:    sampleRate,
		BitsPerSample: 16,
		Data:          PCM16(samples),
	}.Bytes()
}

// Silence returns a canonical PCM file of frames all-zero frames.
func Silence(sampleRate uint32, channels, bits uint16, frames int) []byte {
	return WAV{
		Channels:      channels,
		SampleRate:    sampleRate,
		BitsPerSample: bits,
		Data:          make([]byte, frames*int(channels)*int(bits/8)),
	}.Bytes()
}

// PCM16 encodes samples as little-endian 16-bit PCM.
func PCM16(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// Waveform generates frames of interleaved 16-bit samples from fn.
func Waveform(frames, channels int, fn func(frame, channel int) int16) []int16 {
	out := make([]int16, frames*channels)
	for f := range frames {
		for c := range channels {
			out[f*channels+c] = fn(f, c)
		}
	}
	return out
}

// Sine returns frames of a full-scale mono sine wave at freq Hz.
func Sine(sampleRate uint32, frames int, freq float64) []int16 {
	return Waveform(frames, 1, func(frame, _ int) int16 {
		t := float64(frame) / float64(sampleRate)
		return int16(math.Sin(2*math.Pi*freq*t) * math.MaxInt16)
	})
}

// Ramp returns frames of mono samples equal to their frame index, which
// makes the position of any delivered buffer easy to check.
func Ramp(frames int) []int16 {
	return Waveform(frames, 1, func(frame, _ int) int16 {
		return int16(frame)
	})
}
