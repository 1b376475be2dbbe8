// SPDX-License-Identifier: EPL-2.0

package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ik5/wavsource/audio"
	"github.com/ik5/wavsource/diag"
	"github.com/ik5/wavsource/formats/wav"
	"github.com/ik5/wavsource/internal/observe"
	"github.com/ik5/wavsource/source"
)

const component = "handler"

// pendingCreation is the record of the one creation a handler has in
// flight.
type pendingCreation struct {
	token   CancelToken
	stream  audio.ByteStream
	url     string
	flags   Flags
	result  *Result
	started time.Time
}

// Handler resolves byte streams into WAV media sources. A host creates one
// Handler per resolution; any number of handlers may run concurrently.
type Handler struct {
	mtx     *sync.Mutex
	pending *pendingCreation
	closed  bool

	executor       Executor
	sink           diag.Sink
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	sourceOpts     []source.Option

	metrics *observe.Metrics
	tracer  trace.Tracer

	// open builds the object for a stream.
	open func(stream audio.ByteStream) (any, error)
}

// New returns a Handler ready for one creation.
func New(opts ...Option) *Handler {
	h := &Handler{
		mtx:      &sync.Mutex{},
		executor: GoExecutor,
		sink:     diag.Discard,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.metrics = observe.MetricsFor(h.meterProvider)
	h.tracer = observe.Tracer(h.tracerProvider)
	h.open = h.openSource
	return h
}

// BeginCreate starts resolving stream into a media source and returns
// without waiting for it. Missing arguments fail here and cb is never
// called. Otherwise cb is called exactly once with a complete Result, which
// the caller passes to EndCreate.
func (h *Handler) BeginCreate(stream audio.ByteStream, url string, flags Flags, cb Callback, state any) (token CancelToken, err error) {
	defer recoverPanic("begin create", &err)

	switch {
	case stream == nil:
		return token, fmt.Errorf("%w: nil stream", ErrInvalidArgument)
	case url == "":
		return token, fmt.Errorf("%w: empty url", ErrInvalidArgument)
	case cb == nil:
		return token, fmt.Errorf("%w: nil callback", ErrInvalidArgument)
	}

	if flags.wantsByteStreamOnly() {
		return token, fmt.Errorf("%w: flags %s request a byte stream", ErrNotSupported, flags)
	}

	token = CancelToken(uuid.New())
	p := &pendingCreation{
		token:   token,
		stream:  stream,
		url:     url,
		flags:   flags,
		result:  newResult(h, token, state),
		started: time.Now(),
	}

	h.mtx.Lock()
	switch {
	case h.closed:
		h.mtx.Unlock()
		return CancelToken{}, fmt.Errorf("%w: handler is closed", ErrNotSupported)
	case h.pending != nil:
		h.mtx.Unlock()
		return CancelToken{}, fmt.Errorf("%w: creation %s already pending", ErrNotSupported, h.pending.token)
	}
	h.pending = p
	h.mtx.Unlock()

	diag.WriteLine(h.sink, component, "begin create %s url=%s flags=%s", token, url, flags)

	if err := h.schedule(p, cb); err != nil {
		return CancelToken{}, err
	}
	return token, nil
}

func (h *Handler) schedule(p *pendingCreation, cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.release(p)
			err = fmt.Errorf("%w: executor: %v", ErrInternal, r)
		}
	}()

	h.executor.Execute(func() { h.create(p, cb) })
	return nil
}

func (h *Handler) create(p *pendingCreation, cb Callback) {
	ctx, span := h.tracer.Start(context.Background(), "wavsource.create",
		trace.WithAttributes(
			attribute.String("url", p.url),
			attribute.String("flags", p.flags.String()),
		),
	)

	obj, err := h.openSafely(p.stream)

	status := observe.StatusOK
	if err != nil {
		status = observe.StatusError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		diag.WriteLine(h.sink, component, "create %s failed: %v", p.token, err)
	} else {
		diag.WriteLine(h.sink, component, "create %s done", p.token)
	}
	span.End()
	h.metrics.RecordResolution(ctx, status, time.Since(p.started))

	p.result.complete(obj, err)
	h.release(p)

	h.invoke(cb, p.result)
}

func (h *Handler) openSafely(stream audio.ByteStream) (obj any, err error) {
	defer func() {
		if r := recover(); r != nil {
			obj = nil
			err = fmt.Errorf("%w: open: %v", ErrInternal, r)
		}
	}()

	return h.open(stream)
}

func (h *Handler) openSource(stream audio.ByteStream) (any, error) {
	opts := []source.Option{source.WithSink(h.sink)}
	if h.meterProvider != nil {
		opts = append(opts, source.WithMeterProvider(h.meterProvider))
	}
	src := source.New(append(opts, h.sourceOpts...)...)

	if err := src.Open(stream); err != nil {
		_ = src.Shutdown()
		return nil, err
	}
	return src, nil
}

func (h *Handler) invoke(cb Callback, r *Result) {
	defer func() {
		if p := recover(); p != nil {
			diag.WriteLine(h.sink, component, "callback for %s panicked: %v", r.token, p)
		}
	}()

	cb(r)
}

func (h *Handler) release(p *pendingCreation) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.pending == p {
		h.pending = nil
	}
}

// EndCreate consumes a complete Result. On success it returns
// ObjectMediaSource and the source, which the caller now owns and must shut
// down. A Result can be consumed once.
func (h *Handler) EndCreate(r *Result) (kind ObjectKind, src audio.MediaSource, err error) {
	defer recoverPanic("end create", &err)

	switch {
	case r == nil:
		return ObjectInvalid, nil, fmt.Errorf("%w: nil result", ErrInvalidHandle)
	case r.owner != h:
		return ObjectInvalid, nil, fmt.Errorf("%w: result belongs to another handler", ErrInvalidHandle)
	case !r.completed():
		return ObjectInvalid, nil, fmt.Errorf("%w: creation %s not complete", ErrInvalidHandle, r.token)
	}

	if !r.consumed.CompareAndSwap(false, true) {
		return ObjectInvalid, nil, fmt.Errorf("%w: result %s already consumed", ErrInvalidHandle, r.token)
	}

	if r.status != nil {
		return ObjectInvalid, nil, r.status
	}

	ms, ok := r.object.(audio.MediaSource)
	if !ok {
		if sd, ok := r.object.(interface{ Shutdown() error }); ok {
			if err := sd.Shutdown(); err != nil {
				diag.WriteLine(h.sink, component, "shutdown of %T for %s: %v", r.object, r.token, err)
			}
		}
		return ObjectInvalid, nil, fmt.Errorf("%w: got %T", ErrTypeMismatch, r.object)
	}
	return ObjectMediaSource, ms, nil
}

// Cancel always fails: once started, a creation runs to completion.
func (h *Handler) Cancel(token CancelToken) error {
	return fmt.Errorf("%w: cancel %s", ErrNotSupported, token)
}

// MaxBytesForResolution returns how many leading stream bytes the handler
// needs to decide whether it can resolve a stream.
func (h *Handler) MaxBytesForResolution() uint64 {
	return wav.CanonicalHeaderSize
}

// Close releases the pending record. A creation already running still
// completes and calls its callback; later BeginCreate calls fail.
func (h *Handler) Close() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	h.closed = true
	h.pending = nil
	return nil
}

func recoverPanic(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %s: %v", ErrInternal, op, r)
	}
}
