package dispatcher

import (
	"context"
	"errors"

	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
	"github.com/viant/xfer/progress"
	"github.com/viant/xfer/tracing"
)

// Call is a submitted invocation awaiting its result
type Call struct {
	invocation *invocation.Invocation
	dispatcher *Service
	span       *tracing.Span
	trackers   []*progress.Progress
	done       chan struct{}
	value      interface{}
	err        error
}

// ID returns the invocation id
func (c *Call) ID() string {
	return c.invocation.ID
}

// FunctionRef returns the invoked function reference
func (c *Call) FunctionRef() string {
	return c.invocation.FunctionRef
}

// Done is closed once the call is resolved
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Result returns the outcome; valid after Done is closed
func (c *Call) Result() (interface{}, error) {
	<-c.done
	return c.value, c.err
}

// Wait blocks until the call resolves; if ctx ends first the call is cancelled
func (c *Call) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		c.Cancel()
	}
	return c.Result()
}

// Cancel abandons the call; it reports false when the call had already resolved
func (c *Call) Cancel() bool {
	return c.dispatcher.Cancel(c.ID())
}

// resolve is invoked exactly once, by the event loop
func (c *Call) resolve(value interface{}, err error) {
	c.value, c.err = value, err
	tracing.EndSpan(c.span, err)
	c.track(outcome(err))
	close(c.done)
}

func (c *Call) track(delta progress.Delta) {
	for _, tracker := range c.trackers {
		tracker.Update(delta)
	}
}

func outcome(err error) progress.Delta {
	switch {
	case err == nil:
		return progress.Delta{Completed: 1}
	case errors.Is(err, types.ErrCancelled):
		return progress.Delta{Cancelled: 1}
	}
	return progress.Delta{Failed: 1}
}
