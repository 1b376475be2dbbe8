// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"
)

const (
	riffHeaderSize    = 12
	chunkHeaderSize   = 8
	minFmtChunkSize   = 16
	extensibleFmtSize = 40
	minExtensionSize  = 22

	// unknownDataSize is written by streaming encoders that never go back
	// to patch the header.
	unknownDataSize = math.MaxUint32
)

// pcmSubFormatTail is KSDATAFORMAT_SUBTYPE_PCM without its leading format
// tag, as stored in the extensible fmt chunk.
var pcmSubFormatTail = []byte{
	0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00,
	0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

// ParseHeader reads the RIFF/WAVE header of r and returns the format of its
// PCM data. The stream is read from its start; on success r is positioned at
// the first sample byte.
//
// A data chunk declaring more bytes than the stream holds is accepted and
// its length clamped to what remains.
func ParseHeader(r io.ReadSeeker) (Format, error) {
	if r == nil {
		return Format{}, fmt.Errorf("%w: nil stream", ErrTruncated)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Format{}, fmt.Errorf("%w: rewind: %w", ErrTruncated, err)
	}

	var hdr [riffHeaderSize]byte
	n, _ := io.ReadFull(r, hdr[:])
	if n < 4 || !bytes.Equal(hdr[0:4], riff.RiffID[:]) {
		return Format{}, fmt.Errorf("%w: missing RIFF tag", ErrBadMagic)
	}
	if n < riffHeaderSize || !bytes.Equal(hdr[8:12], riff.WavFormatID[:]) {
		return Format{}, fmt.Errorf("%w: missing WAVE form type", ErrBadMagic)
	}

	f := Format{RIFFSize: binary.LittleEndian.Uint32(hdr[4:8])}
	haveFmt := false

	for {
		id, size, err := readChunkHeader(r)
		if err != nil {
			if haveFmt {
				return Format{}, fmt.Errorf("%w: no data chunk: %w", ErrTruncated, err)
			}
			return Format{}, fmt.Errorf("%w: no fmt chunk: %w", ErrTruncated, err)
		}

		switch {
		case id == riff.FmtID && !haveFmt:
			if err := parseFmtChunk(r, size, &f); err != nil {
				return Format{}, err
			}
			haveFmt = true

		case id == riff.DataFormatID:
			if !haveFmt {
				return Format{}, fmt.Errorf("%w: data chunk precedes fmt chunk", ErrInvalidField)
			}
			if err := locateData(r, size, &f); err != nil {
				return Format{}, err
			}
			if f.DataOffset < CanonicalHeaderSize {
				return Format{}, fmt.Errorf("%w: data starts at offset %d", ErrInvalidField, f.DataOffset)
			}
			return f, nil

		default:
			if err := skipChunk(r, size); err != nil {
				return Format{}, fmt.Errorf("%w: chunk %q: %w", ErrTruncated, id[:], err)
			}
		}
	}
}

// readChunkHeader reads a chunk ID and its little-endian size. A header cut
// short fails with io.ErrUnexpectedEOF.
func readChunkHeader(r io.Reader) (id [4]byte, size uint32, err error) {
	var hdr [chunkHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return id, 0, err
	}
	copy(id[:], hdr[0:4])
	return id, binary.LittleEndian.Uint32(hdr[4:8]), nil
}

func parseFmtChunk(r io.Reader, size uint32, f *Format) error {
	if size < minFmtChunkSize {
		return fmt.Errorf("%w: fmt chunk is %d bytes, need %d", ErrInvalidField, size, minFmtChunkSize)
	}

	buf := make([]byte, min(size, extensibleFmtSize))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: fmt chunk: %w", ErrTruncated, err)
	}
	if err := discard(r, int64(size)-int64(len(buf))+int64(size%2)); err != nil {
		return fmt.Errorf("%w: fmt chunk: %w", ErrTruncated, err)
	}

	tag := FormatTag(binary.LittleEndian.Uint16(buf[0:2]))
	channels := binary.LittleEndian.Uint16(buf[2:4])
	sampleRate := binary.LittleEndian.Uint32(buf[4:8])
	bits := binary.LittleEndian.Uint16(buf[14:16])

	switch tag {
	case TagPCM:
	case TagExtensible:
		if err := checkExtensible(buf); err != nil {
			return err
		}
		tag = TagPCM
	default:
		return fmt.Errorf("%w: format tag %s", ErrUnsupportedFormat, tag)
	}

	if channels == 0 {
		return fmt.Errorf("%w: zero channels", ErrInvalidField)
	}
	if sampleRate == 0 {
		return fmt.Errorf("%w: zero sample rate", ErrInvalidField)
	}
	switch bits {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per sample", ErrInvalidField, bits)
	}

	blockAlign := uint32(channels) * uint32(bits/8)
	if blockAlign > math.MaxUint16 {
		return fmt.Errorf("%w: block align %d overflows", ErrInvalidField, blockAlign)
	}
	byteRate := uint64(sampleRate) * uint64(blockAlign)
	if byteRate > math.MaxUint32 {
		return fmt.Errorf("%w: byte rate %d overflows", ErrInvalidField, byteRate)
	}

	f.Tag = tag
	f.Channels = channels
	f.SampleRate = sampleRate
	f.BitsPerSample = bits
	f.BlockAlign = uint16(blockAlign)
	f.ByteRate = uint32(byteRate)
	return nil
}

// checkExtensible accepts WAVE_FORMAT_EXTENSIBLE only with the PCM sub-format.
func checkExtensible(buf []byte) error {
	if len(buf) < extensibleFmtSize {
		return fmt.Errorf("%w: extensible fmt chunk is %d bytes", ErrUnsupportedFormat, len(buf))
	}
	if cb := binary.LittleEndian.Uint16(buf[16:18]); cb < minExtensionSize {
		return fmt.Errorf("%w: extension size %d", ErrUnsupportedFormat, cb)
	}
	sub := FormatTag(binary.LittleEndian.Uint16(buf[24:26]))
	if sub != TagPCM || !bytes.Equal(buf[26:40], pcmSubFormatTail) {
		return fmt.Errorf("%w: extensible sub-format %s", ErrUnsupportedFormat, sub)
	}
	return nil
}

func locateData(r io.Seeker, size uint32, f *Format) error {
	offset, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w: data offset: %w", ErrTruncated, err)
	}

	placeholder := size == 0 || size == unknownDataSize
	length := int64(size)
	end, err := r.Seek(0, io.SeekEnd)
	if err == nil {
		remaining := max(end-offset, 0)
		if placeholder {
			length = remaining
		}
		length = min(length, remaining)
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("%w: data offset: %w", ErrTruncated, err)
		}
	} else if placeholder {
		// Unknown end and no usable size: claim the most a data chunk can
		// hold. Readers find the real end when the stream runs dry.
		length = unknownDataSize
	}

	f.DataOffset = offset
	f.DataLength = length
	return nil
}

// skipChunk discards size bytes and the pad byte that follows an odd size.
func skipChunk(r io.Reader, size uint32) error {
	return discard(r, int64(size)+int64(size%2))
}

func discard(r io.Reader, want int64) error {
	if want <= 0 {
		return nil
	}
	n, err := io.CopyN(io.Discard, r, want)
	if n == want {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return err
}
