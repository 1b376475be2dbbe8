package wav

import "errors"

var (
	// ErrBadMagic is returned when the stream does not start with a RIFF
	// header of form type WAVE.
	ErrBadMagic = errors.New("not a RIFF/WAVE stream")

	// ErrTruncated is returned when the stream ends before a chunk it
	// declares, or before both the fmt and data chunks were found.
	ErrTruncated = errors.New("truncated WAV header")

	// ErrInvalidField is returned for header fields outside their legal range.
	ErrInvalidField = errors.New("invalid WAV header field")

	// ErrUnsupportedFormat is returned for any sample encoding other than PCM.
	ErrUnsupportedFormat = errors.New("unsupported WAV sample format")
)
