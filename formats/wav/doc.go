// SPDX-License-Identifier: EPL-2.0

// Package wav parses and writes RIFF/WAVE container headers.
//
// The package does not decode samples. It validates the container of a
// seekable stream and describes where its PCM data lives, leaving the
// streaming of that data to the source package.
//
// # Parsing
//
//	f, err := wav.ParseHeader(file)
//	if err != nil {
//	    // errors.Is(err, wav.ErrBadMagic), wav.ErrTruncated, ...
//	}
//	fmt.Println(f.SampleRate, f.Channels, f.BitsPerSample, f.DataOffset)
//
// ParseHeader walks the chunk list with github.com/go-audio/riff until it has
// seen a fmt chunk and a data chunk. Chunks it does not know (LIST, fact,
// bext, JUNK, ...) are skipped by their declared size, honouring the RIFF pad
// byte after odd sized chunks.
//
// # Supported Formats
//
//   - PCM (format tag 1)
//   - WAVE_FORMAT_EXTENSIBLE with the PCM sub-format
//   - 8, 16, 24 and 32 bits per sample
//   - any channel count and sample rate
//
// Everything else is rejected with ErrUnsupportedFormat.
//
// # Damaged Files
//
// Writers frequently leave the RIFF size or the data chunk size wrong, either
// because they crashed before patching the header or because they stream.
// The RIFF size is recorded but never checked. A data chunk that claims more
// bytes than the stream holds, or that carries the 0 / 0xFFFFFFFF
// placeholder, is treated as running to the end of the stream.
//
// # Errors
//
//   - ErrBadMagic: no RIFF tag or no WAVE form type
//   - ErrTruncated: the stream ends inside a declared chunk or before the
//     fmt and data chunks were found
//   - ErrInvalidField: zero channels, zero sample rate, unsupported bit depth
//   - ErrUnsupportedFormat: a non-PCM encoding
//
// All errors are wrapped with context; compare with errors.Is.
//
// # Writing
//
// EncodeHeader produces the canonical 44 byte header for a Format and
// WritePCM writes a whole file:
//
//	f := wav.Format{Channels: 1, SampleRate: 8000, BitsPerSample: 16}
//	err := wav.WritePCM(out, f, pcm)
package wav
