// SPDX-License-Identifier: EPL-2.0

package wavsource

import (
	"context"
	"fmt"

	"github.com/ik5/wavsource/audio"
	"github.com/ik5/wavsource/handler"
)

// ResolveOption configures Resolve.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	abandoned func()
}

// OnAbandon sets fn to run once a creation abandoned by an ended context has
// finished in the background and its source, if any, is shut down. Only then
// is the stream no longer read, so fn is where a caller closes it.
func OnAbandon(fn func()) ResolveOption {
	return func(o *resolveOptions) { o.abandoned = fn }
}

// Resolve runs one creation on h and waits for it. A nil h means a fresh
// handler.New(). When ctx ends first Resolve returns an error wrapping
// ctx.Err(); the creation still finishes in the background and its source
// is shut down.
func Resolve(ctx context.Context, h *handler.Handler, stream audio.ByteStream, url string, opts ...ResolveOption) (audio.MediaSource, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}
	if h == nil {
		h = handler.New()
	}

	done := make(chan *handler.Result, 1)
	_, err := h.BeginCreate(stream, url, handler.FlagMediaSource|handler.FlagRead,
		func(r *handler.Result) { done <- r }, nil)
	if err != nil {
		return nil, err
	}

	select {
	case r := <-done:
		_, src, err := h.EndCreate(r)
		return src, err
	case <-ctx.Done():
		go discard(h, done, o.abandoned)
		return nil, fmt.Errorf("wavsource: resolve %s: %w", url, ctx.Err())
	}
}

// discard consumes a result nobody waits for.
func discard(h *handler.Handler, done <-chan *handler.Result, abandoned func()) {
	if _, src, err := h.EndCreate(<-done); err == nil {
		_ = src.Shutdown()
	}
	if abandoned != nil {
		abandoned()
	}
}
