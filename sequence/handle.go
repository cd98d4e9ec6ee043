package sequence

import (
	"context"
	"sync"
)

// Handle is a one-shot asynchronous outcome.  It settles exactly once with
// either a value or an error; later settle attempts lose silently at this
// level (the owning Deferred reports them as protocol misuse).
//
// A nil *Handle is valid and means "no ordering dependency": its Done
// channel is already closed and Wait returns immediately.
type Handle struct {
	once  sync.Once
	done  chan struct{}
	value interface{}
	err   error
}

var closedDone = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// newSettledHandle returns a handle already settled successfully.  Used for
// the sentinel anchoring the first chained unit.
func newSettledHandle(value interface{}) *Handle {
	h := newHandle()
	h.settle(value, nil)
	return h
}

// settle records the outcome.  The first call wins and reports true; all
// later calls leave the outcome untouched and report false.
func (h *Handle) settle(value interface{}, err error) bool {
	won := false
	h.once.Do(func() {
		h.value = value
		h.err = err
		close(h.done)
		won = true
	})
	return won
}

// Done returns a channel closed once the handle settles.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		return closedDone
	}
	return h.done
}

// Settled reports whether the handle has settled, without blocking.
func (h *Handle) Settled() bool {
	if h == nil {
		return true
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the handle settles or ctx is cancelled.  It returns the
// settled value and error; on cancellation it returns ctx.Err().  Callers
// using a handle purely as an ordering barrier should check ctx.Err() to
// tell cancellation apart from a predecessor's own failure.
func (h *Handle) Wait(ctx context.Context) (interface{}, error) {
	if h == nil {
		return nil, nil
	}
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
