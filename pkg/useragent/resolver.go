package useragent

import (
	"context"
	"errors"
)

var (
	// ErrNoUserAgent is returned when the ambient read produced nothing usable.
	ErrNoUserAgent = errors.New("useragent: ambient read was inconclusive")

	// ErrProbeClosed is returned when a surface is queried after Close.
	ErrProbeClosed = errors.New("useragent: probe surface closed")
)

// Result is the outcome of one resolution attempt.
type Result struct {
	UserAgent string
	Err       error
}

// Resolver produces an identification string asynchronously.
type Resolver interface {
	// Resolve starts resolution and returns a channel that receives exactly
	// one Result. The channel is buffered; callers may abandon it.
	Resolve(ctx context.Context) <-chan Result
}

// Static resolves to a fixed value without doing any work.
type Static string

// Resolve implements Resolver.
func (s Static) Resolve(context.Context) <-chan Result {
	ch := make(chan Result, 1)
	if s == "" {
		ch <- Result{Err: ErrNoUserAgent}
	} else {
		ch <- Result{UserAgent: string(s)}
	}
	return ch
}
