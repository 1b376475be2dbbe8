// SPDX-License-Identifier: EPL-2.0

package handler

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// CancelToken identifies one creation. It exists for the protocol's shape;
// Cancel never honours it.
type CancelToken uuid.UUID

func (t CancelToken) String() string { return uuid.UUID(t).String() }

// Callback is invoked exactly once per accepted BeginCreate, after the
// Result is complete.
type Callback func(r *Result)

// Result is the single-shot completion handle of one creation. It is
// passed to the callback and then handed back to EndCreate.
type Result struct {
	owner *Handler
	token CancelToken
	state any

	once   sync.Once
	done   chan struct{}
	object any
	status error

	consumed atomic.Bool
}

func newResult(owner *Handler, token CancelToken, state any) *Result {
	return &Result{
		owner: owner,
		token: token,
		state: state,
		done:  make(chan struct{}),
	}
}

// State returns the caller state given to BeginCreate.
func (r *Result) State() any { return r.state }

// Token returns the cancel token BeginCreate returned.
func (r *Result) Token() CancelToken { return r.token }

// Done is closed once the outcome is known.
func (r *Result) Done() <-chan struct{} { return r.done }

// Status returns the failure of the creation. It is nil while the creation
// is running and after a success.
func (r *Result) Status() error {
	select {
	case <-r.done:
		return r.status
	default:
		return nil
	}
}

func (r *Result) complete(object any, status error) {
	r.once.Do(func() {
		r.object = object
		r.status = status
		close(r.done)
	})
}

func (r *Result) completed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}
