// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/go-audio/riff"
)

// EncodeHeader returns the canonical 44 byte PCM header describing f.
// BlockAlign and ByteRate are derived from the other fields, and the data
// chunk size is f.DataLength.
func EncodeHeader(f Format) []byte {
	blockAlign := f.Channels * (f.BitsPerSample / 8)
	byteRate := f.SampleRate * uint32(blockAlign)
	dataSize := uint32(min(max(f.DataLength, 0), math.MaxUint32-36))

	header := make([]byte, CanonicalHeaderSize)

	copy(header[0:4], riff.RiffID[:])
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], riff.WavFormatID[:])

	copy(header[12:16], riff.FmtID[:])
	binary.LittleEndian.PutUint32(header[16:20], minFmtChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], uint16(TagPCM))
	binary.LittleEndian.PutUint16(header[22:24], f.Channels)
	binary.LittleEndian.PutUint32(header[24:28], f.SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], f.BitsPerSample)

	copy(header[36:40], riff.DataFormatID[:])
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	return header
}

// WritePCM writes a complete PCM WAV stream: the canonical header for f
// followed by data. The header's data size is taken from len(data), not
// from f.DataLength.
func WritePCM(w io.Writer, f Format, data []byte) error {
	f.DataLength = int64(len(data))
	if _, err := w.Write(EncodeHeader(f)); err != nil {
		return err
	}

	const chunkSize = 8192
	for i := 0; i < len(data); i += chunkSize {
		end := min(i+chunkSize, len(data))
		if _, err := w.Write(data[i:end]); err != nil {
			return err
		}
	}

	// RIFF chunks are word aligned.
	if len(data)%2 == 1 {
		if _, err := w.Write([]byte{0}); err != nil {
			return err
		}
	}

	return nil
}
