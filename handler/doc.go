// SPDX-License-Identifier: EPL-2.0

// Package handler implements the two-phase resolution protocol that turns
// a byte stream into a WAV media source.
//
// BeginCreate validates its arguments, schedules the header parse on an
// Executor and returns at once. When the work finishes the callback
// receives a Result, and EndCreate turns it into a media source:
//
//	h := handler.New()
//	done := make(chan *handler.Result, 1)
//	_, err := h.BeginCreate(stream, "file:///tmp/a.wav", handler.FlagMediaSource|handler.FlagRead,
//	    func(r *handler.Result) { done <- r }, nil)
//	if err != nil {
//	    return err
//	}
//	_, src, err := h.EndCreate(<-done)
//
// Parse failures travel through the Result and match source.ErrInvalidFormat
// together with the formats/wav error. Only argument errors are returned by
// BeginCreate itself.
//
// Cancel is not supported and MaxBytesForResolution is fixed at the size of
// a canonical WAV header.
package handler
