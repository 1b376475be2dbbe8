// SPDX-License-Identifier: EPL-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/ik5/wavsource/audio"
	"github.com/ik5/wavsource/diag"
	"github.com/ik5/wavsource/formats/wav"
	"github.com/ik5/wavsource/internal/observe"
)

const component = "source"

// Source is a media source streaming the data chunk of a PCM WAV stream.
type Source struct {
	state atomic.Int32
	shut  atomic.Bool

	mtx *sync.Mutex

	stream audio.ByteStream
	format wav.Format
	// end is the offset one past the last usable data byte. It shrinks when
	// the stream turns out shorter than its header claims.
	end    int64
	cursor int64
	chunk  int64
	active bool

	quantum       time.Duration
	sink          diag.Sink
	meterProvider metric.MeterProvider
	metrics       *observe.Metrics
}

var _ audio.MediaSource = (*Source)(nil)

// New returns a Source in the Created state.
func New(opts ...Option) *Source {
	s := &Source{
		mtx:     &sync.Mutex{},
		quantum: DefaultBufferDuration,
		sink:    diag.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = observe.MetricsFor(s.meterProvider)
	s.state.Store(int32(audio.StateCreated))
	return s
}

// Open parses the header of stream and starts the source. It may be called
// once.
func (s *Source) Open(stream audio.ByteStream) (err error) {
	defer s.recoverPanic("open", &err)

	if s.shut.Load() {
		return fmt.Errorf("%w: open after shutdown", ErrInvalidState)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.shut.Load() {
		return fmt.Errorf("%w: open after shutdown", ErrInvalidState)
	}
	if st := s.current(); st != audio.StateCreated {
		return fmt.Errorf("%w: state %s", ErrAlreadyOpened, st)
	}
	s.setState(audio.StateOpening)
	defer func() {
		if s.current() == audio.StateOpening {
			s.setState(audio.StateError)
		}
	}()

	if stream == nil {
		s.setState(audio.StateError)
		return fmt.Errorf("%w: nil stream", ErrInvalidFormat)
	}

	f, err := wav.ParseHeader(stream)
	if err != nil {
		s.setState(audio.StateError)
		diag.WriteLine(s.sink, component, "open failed: %v", err)
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	s.stream = stream
	s.format = f
	s.end = f.DataOffset + f.DataLength
	s.cursor = f.DataOffset

	frames := wav.DurationToFrames(s.quantum, f.SampleRate)
	if frames < 1 {
		frames = 1
	}
	s.chunk = frames * int64(f.BlockAlign)

	s.active = true
	s.metrics.ActiveSources.Add(context.Background(), 1)
	s.setState(audio.StateStarted)

	diag.WriteLine(s.sink, component, "opened %s, duration %v", f, f.Duration())
	return nil
}

// RequestSample returns the next buffer of whole frames. Once the data
// region is exhausted it returns ErrEndOfStream until the source is seeked,
// stopped or shut down.
func (s *Source) RequestSample() (buf audio.SampleBuffer, err error) {
	defer s.recoverPanic("request sample", &err)

	if s.shut.Load() {
		return buf, fmt.Errorf("%w: source is shut down", ErrInvalidState)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if st := s.current(); st != audio.StateStarted {
		return buf, fmt.Errorf("%w: request sample in state %s", ErrInvalidState, st)
	}

	align := int64(s.format.BlockAlign)
	remaining := s.end - s.cursor
	remaining -= remaining % align
	if remaining <= 0 {
		return buf, ErrEndOfStream
	}

	if _, err := s.stream.Seek(s.cursor, io.SeekStart); err != nil {
		return buf, fmt.Errorf("%w: seek to %d: %w", ErrStreamIO, s.cursor, err)
	}

	data := make([]byte, min(s.chunk, remaining))
	n, err := io.ReadFull(s.stream, data)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return buf, fmt.Errorf("%w: read at %d: %w", ErrStreamIO, s.cursor, err)
		}
		s.truncate(s.cursor + int64(n))
		data = data[:int64(n)-int64(n)%align]
		if len(data) == 0 {
			return buf, ErrEndOfStream
		}
	}

	if s.shut.Load() {
		return audio.SampleBuffer{}, fmt.Errorf("%w: shut down during read", ErrInvalidState)
	}

	buf = audio.SampleBuffer{
		Timestamp: s.positionLocked(),
		Duration:  wav.FramesToDuration(int64(len(data))/align, s.format.SampleRate),
		Data:      data,
		Format:    s.format,
	}
	s.cursor += int64(len(data))
	s.metrics.SampleBytes.Add(context.Background(), int64(len(data)))

	return buf, nil
}

// truncate shrinks the data region to end at offset.
func (s *Source) truncate(offset int64) {
	if offset >= s.end {
		return
	}
	diag.WriteLine(s.sink, component, "stream ended at %d, header declared %d", offset, s.end)
	s.end = offset
	s.format.DataLength = offset - s.format.DataOffset
}

// Seek moves to the frame at or before t. t is clamped to [0, Duration()].
// The state is kept.
func (s *Source) Seek(t time.Duration) (err error) {
	defer s.recoverPanic("seek", &err)

	if s.shut.Load() {
		return fmt.Errorf("%w: source is shut down", ErrInvalidState)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	switch st := s.current(); st {
	case audio.StateStarted, audio.StatePaused, audio.StateStopped:
	default:
		return fmt.Errorf("%w: seek in state %s", ErrInvalidState, st)
	}

	align := int64(s.format.BlockAlign)
	total := s.format.Frames()

	frames := wav.DurationToFrames(max(t, 0), s.format.SampleRate)
	if t >= s.format.Duration() {
		frames = total
	}
	frames = min(frames, total)

	s.cursor = s.format.DataOffset + frames*align
	diag.WriteLine(s.sink, component, "seek %v -> frame %d", t, frames)
	return nil
}

// Pause stops sample delivery until Resume.
func (s *Source) Pause() (err error) {
	defer s.recoverPanic("pause", &err)

	return s.transition("pause", func(st audio.State) (audio.State, bool) {
		switch st {
		case audio.StateStarted, audio.StatePaused:
			return audio.StatePaused, true
		}
		return st, false
	})
}

// Resume restarts delivery from a paused or stopped source.
func (s *Source) Resume() (err error) {
	defer s.recoverPanic("resume", &err)

	return s.transition("resume", func(st audio.State) (audio.State, bool) {
		switch st {
		case audio.StateStarted, audio.StatePaused, audio.StateStopped:
			return audio.StateStarted, true
		}
		return st, false
	})
}

// Stop halts delivery and rewinds to the first frame.
func (s *Source) Stop() (err error) {
	defer s.recoverPanic("stop", &err)

	return s.transition("stop", func(st audio.State) (audio.State, bool) {
		switch st {
		case audio.StateStarted, audio.StatePaused:
			s.cursor = s.format.DataOffset
			return audio.StateStopped, true
		case audio.StateStopped:
			return st, true
		}
		return st, false
	})
}

func (s *Source) transition(op string, next func(audio.State) (audio.State, bool)) error {
	if s.shut.Load() {
		return fmt.Errorf("%w: %s after shutdown", ErrInvalidState, op)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	st := s.current()
	to, ok := next(st)
	if !ok {
		return fmt.Errorf("%w: %s in state %s", ErrInvalidState, op, st)
	}
	if to != st {
		s.setState(to)
		diag.WriteLine(s.sink, component, "%s: %s -> %s", op, st, to)
	}
	return nil
}

// Shutdown releases the stream and makes every later operation fail. It is
// idempotent and allowed from any state.
func (s *Source) Shutdown() (err error) {
	defer s.recoverPanic("shutdown", &err)

	if !s.shut.CompareAndSwap(false, true) {
		return nil
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.setState(audio.StateShutdown)
	s.stream = nil
	if s.active {
		s.active = false
		s.metrics.ActiveSources.Add(context.Background(), -1)
	}

	diag.WriteLine(s.sink, component, "shutdown")
	return nil
}

// State returns the current state. A Shutdown in progress is reported
// immediately.
func (s *Source) State() audio.State {
	if s.shut.Load() {
		return audio.StateShutdown
	}
	return s.current()
}

// Format returns the parsed format. It is the zero Format before a
// successful Open.
func (s *Source) Format() wav.Format {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.format
}

// Duration returns the playing time of the data region.
func (s *Source) Duration() time.Duration {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.format.Duration()
}

// Position returns the presentation time of the next frame to be delivered.
func (s *Source) Position() time.Duration {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.positionLocked()
}

func (s *Source) positionLocked() time.Duration {
	if s.format.BlockAlign == 0 {
		return 0
	}
	frames := (s.cursor - s.format.DataOffset) / int64(s.format.BlockAlign)
	return wav.FramesToDuration(frames, s.format.SampleRate)
}

func (s *Source) current() audio.State { return audio.State(s.state.Load()) }

func (s *Source) setState(st audio.State) { s.state.Store(int32(st)) }

func (s *Source) recoverPanic(op string, err *error) {
	if r := recover(); r != nil {
		diag.WriteLine(s.sink, component, "%s panicked: %v", op, r)
		*err = fmt.Errorf("%w: %s: %v", ErrInternal, op, r)
	}
}
