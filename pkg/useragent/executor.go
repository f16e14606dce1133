package useragent

// Executor runs resolution work on a context chosen by the caller.
type Executor interface {
	Go(fn func())
}

// GoExecutor runs each function on a new goroutine.
type GoExecutor struct{}

// Go implements Executor.
func (GoExecutor) Go(fn func()) { go fn() }

// InlineExecutor runs each function synchronously on the caller's goroutine.
type InlineExecutor struct{}

// Go implements Executor.
func (InlineExecutor) Go(fn func()) { fn() }
