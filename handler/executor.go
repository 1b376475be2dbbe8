// SPDX-License-Identifier: EPL-2.0

package handler

// Executor runs creation work off the caller's goroutine. A host with its
// own work queue plugs it in here.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// GoExecutor starts one goroutine per creation.
var GoExecutor Executor = ExecutorFunc(func(fn func()) { go fn() })

// InlineExecutor runs the work on the calling goroutine. The outcome is
// still delivered through the callback, before BeginCreate returns.
var InlineExecutor Executor = ExecutorFunc(func(fn func()) { fn() })
