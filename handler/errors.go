// SPDX-License-Identifier: EPL-2.0

package handler

import "errors"

var (
	// ErrInvalidArgument is returned synchronously by BeginCreate for a
	// missing stream, URL or callback.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidHandle is returned by EndCreate for a result that is nil,
	// belongs to another handler, is not complete, or was already consumed.
	ErrInvalidHandle = errors.New("invalid result handle")

	// ErrTypeMismatch is returned by EndCreate when the created object is
	// not a media source.
	ErrTypeMismatch = errors.New("created object is not a media source")

	// ErrNotSupported is returned for requests this handler does not serve,
	// including every Cancel.
	ErrNotSupported = errors.New("not supported")

	// ErrInternal is returned when an operation panicked.
	ErrInternal = errors.New("internal handler error")
)
