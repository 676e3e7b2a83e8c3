package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
	"github.com/viant/xfer/service/executor"
	"github.com/viant/xfer/service/messaging/memory"
	"go.uber.org/zap"
)

// Result aliases the invocation result carried by EventResult
type Result = invocation.Result

// Option customises a context
type Option func(*Context)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Context is a single worker execution context
type Context struct {
	slotID     int
	generation int
	executor   executor.Service
	inbox      *memory.Queue[invocation.Invocation]
	events     chan<- Event
	logger     *zap.Logger

	state atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	current   string
	interrupt context.CancelFunc
}

// New creates a context in Spawned state; events receives its lifecycle and result events
func New(slotID, generation int, exec executor.Service, events chan<- Event, options ...Option) *Context {
	ret := &Context{
		slotID:     slotID,
		generation: generation,
		executor:   exec,
		inbox:      memory.NewQueue[invocation.Invocation](memory.InboxConfig()),
		events:     events,
		logger:     zap.NewNop(),
		done:       make(chan struct{}),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.With(zap.Int("slot", slotID), zap.Int("generation", generation))
	return ret
}

// State returns the current state
func (c *Context) State() State {
	return State(c.state.Load())
}

// Done is closed once the context goroutine has exited
func (c *Context) Done() <-chan struct{} {
	return c.done
}

// Start launches the context goroutine
func (c *Context) Start(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)
	go c.run()
}

// Submit hands an invocation to the context; the caller guarantees the context is Idle
func (c *Context) Submit(anInvocation *invocation.Invocation) error {
	if c.State() == StateTerminated {
		return fmt.Errorf("slot %d: %w", c.slotID, types.ErrWorkerTerminated)
	}
	return c.inbox.Publish(c.ctx, anInvocation)
}

// Interrupt cancels the execution context of the given in-flight invocation.
// The registered function may ignore it and run to completion.
func (c *Context) Interrupt(invocationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != invocationID || c.interrupt == nil {
		return false
	}
	c.interrupt()
	return true
}

// Terminate stops the context once the current invocation, if any, returns
func (c *Context) Terminate() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Dropped returns invocations accepted by the inbox whose result could not be delivered
func (c *Context) Dropped() []*invocation.Invocation {
	return c.inbox.DeadLetters()
}

func (c *Context) run() {
	defer close(c.done)
	terminated := false
	defer func() {
		r := recover()
		c.state.Store(int32(StateTerminated))
		if terminated && r == nil {
			return
		}
		inFlight := c.inFlight()
		err := fmt.Errorf("slot %d exited unexpectedly: %w", c.slotID, types.ErrWorkerTerminated)
		if r != nil {
			err = fmt.Errorf("slot %d crashed: %v: %w", c.slotID, r, types.ErrWorkerTerminated)
		}
		c.logger.Warn("worker context exited", zap.String("invocation", inFlight), zap.Error(err))
		c.emit(Event{Kind: EventExit, InvocationID: inFlight, Err: err})
	}()

	c.state.Store(int32(StateIdle))
	if !c.emit(Event{Kind: EventReady}) {
		terminated = true
		return
	}
	for {
		msg, err := c.inbox.Consume(c.ctx)
		if err != nil {
			terminated = true
			return
		}
		result := c.execute(msg.T())
		if !c.emit(Event{Kind: EventResult, Result: result}) {
			_ = msg.Nack(types.ErrWorkerTerminated)
			terminated = true
			return
		}
		_ = msg.Ack()
	}
}

func (c *Context) execute(anInvocation *invocation.Invocation) *invocation.Result {
	execCtx, cancel := context.WithCancel(types.WithWorkerSlot(c.ctx, c.slotID))
	defer cancel()
	c.mu.Lock()
	c.current = anInvocation.ID
	c.interrupt = cancel
	c.mu.Unlock()
	c.state.Store(int32(StateBusy))

	result := c.executor.Execute(execCtx, anInvocation)

	c.mu.Lock()
	c.current = ""
	c.interrupt = nil
	c.mu.Unlock()
	c.state.Store(int32(StateIdle))
	return result
}

func (c *Context) inFlight() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Context) emit(event Event) bool {
	event.SlotID = c.slotID
	event.Generation = c.generation
	select {
	case c.events <- event:
		return true
	case <-c.ctx.Done():
		return false
	}
}
