package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/viant/xfer/extension"
	"github.com/viant/xfer/internal/clock"
	"github.com/viant/xfer/internal/idgen"
	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
	"github.com/viant/xfer/policy"
	"github.com/viant/xfer/progress"
	"github.com/viant/xfer/service/executor"
	"github.com/viant/xfer/service/marshal"
	"github.com/viant/xfer/service/worker"
	"github.com/viant/xfer/tracing"
	"go.uber.org/zap"
)

var errNotStarted = errors.New("dispatcher not started")

type cancelRequest struct {
	id    string
	reply chan bool
}

// Service dispatches invocations to a fixed pool of worker contexts
type Service struct {
	config    Config
	registry  *extension.Registry
	marshaler *marshal.Service
	executor  executor.Service
	logger    *zap.Logger
	listener  Listener
	progress  *progress.Progress

	submitCh chan *Call
	cancelCh chan cancelRequest
	statsCh  chan chan Stats
	events   chan worker.Event
	closing  chan struct{}
	stopped  chan struct{}

	started   atomic.Bool
	startOnce sync.Once
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc

	// owned by the event loop
	slots   []*Slot
	pending *pending
	backlog []*Call
}

// New creates a dispatcher
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:   DefaultConfig(),
		logger:   zap.NewNop(),
		submitCh: make(chan *Call),
		cancelCh: make(chan cancelRequest),
		statsCh:  make(chan chan Stats),
		closing:  make(chan struct{}),
		stopped:  make(chan struct{}),
		pending:  newPending(),
	}
	for _, opt := range options {
		opt(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.progress == nil {
		s.progress = progress.New("dispatcher", nil)
	}
	if s.registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if s.marshaler == nil {
		marshaler, err := marshal.New()
		if err != nil {
			return nil, err
		}
		s.marshaler = marshaler
	}
	if s.executor == nil {
		s.executor = executor.NewService(s.registry, s.marshaler, executor.WithLogger(s.logger))
	}
	s.events = make(chan worker.Event, 2*s.config.PoolSize)
	return s, nil
}

// Config returns the dispatcher configuration
func (s *Service) Config() Config {
	return s.config
}

// Start spawns the worker contexts and the event loop
func (s *Service) Start(ctx context.Context) error {
	s.startOnce.Do(func() {
		s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
		s.slots = make([]*Slot, s.config.PoolSize)
		for i := range s.slots {
			slot := &Slot{ID: i}
			s.slots[i] = slot
			s.spawn(slot)
		}
		go s.loop()
		s.started.Store(true)
	})
	return nil
}

// Submit validates and marshals the call and hands it to the event loop.
// Transfer directives take effect before Submit returns, even if the call later fails.
func (s *Service) Submit(ctx context.Context, ref string, args []interface{}, directives *invocation.Directives) (*Call, error) {
	if !s.started.Load() {
		return nil, errNotStarted
	}
	select {
	case <-s.closing:
		return nil, types.ErrClosed
	default:
	}
	if _, err := s.registry.Check(ref, len(args)); err != nil {
		return nil, err
	}
	if err := directives.Validate(len(args)); err != nil {
		return nil, fmt.Errorf("%v: %w", err, types.ErrArgumentMismatch)
	}
	payloads, err := s.marshaler.PackArguments(ctx, args, directives)
	if err != nil {
		return nil, err
	}
	call := &Call{
		invocation: &invocation.Invocation{
			ID:              idgen.New(),
			FunctionRef:     ref,
			Arguments:       payloads,
			ResultDirective: directives.ResultDirective(),
			SubmittedAt:     clock.Now(),
		},
		dispatcher: s,
		trackers:   []*progress.Progress{s.progress},
		done:       make(chan struct{}),
	}
	if p := policy.FromContext(ctx); p != nil {
		call.invocation.Policy = p
	}
	if tracker, ok := progress.FromContext(ctx); ok {
		call.trackers = append(call.trackers, tracker)
	}
	_, call.span = tracing.StartSpan(ctx, "dispatcher.Run "+ref, "PRODUCER")
	call.span.WithAttributes(map[string]string{"invocation.id": call.ID()})

	select {
	case s.submitCh <- call:
		return call, nil
	case <-s.closing:
		err = types.ErrClosed
	case <-ctx.Done():
		err = fmt.Errorf("%w: %v", types.ErrCancelled, ctx.Err())
	}
	tracing.EndSpan(call.span, err)
	return nil, err
}

// Run submits the call and waits for its result
func (s *Service) Run(ctx context.Context, ref string, args []interface{}, directives *invocation.Directives) (interface{}, error) {
	call, err := s.Submit(ctx, ref, args, directives)
	if err != nil {
		return nil, err
	}
	return call.Wait(ctx)
}

// Cancel fails the pending call with ErrCancelled and interrupts its worker;
// a result arriving later is discarded
func (s *Service) Cancel(id string) bool {
	req := cancelRequest{id: id, reply: make(chan bool, 1)}
	select {
	case s.cancelCh <- req:
		return <-req.reply
	case <-s.stopped:
		return false
	}
}

// Progress returns the call outcome counters since the dispatcher was created
func (s *Service) Progress() progress.Counters {
	return s.progress.Snapshot()
}

// Stats returns a snapshot of the pool
func (s *Service) Stats() Stats {
	if !s.started.Load() {
		return Stats{PoolSize: s.config.PoolSize}
	}
	reply := make(chan Stats, 1)
	select {
	case s.statsCh <- reply:
		return <-reply
	case <-s.stopped:
		return s.snapshot()
	}
}

// Shutdown terminates every worker context and fails outstanding calls; it
// waits for the contexts to stop until ctx is done
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.started.Load() {
		return nil
	}
	s.closeOnce.Do(func() {
		close(s.closing)
	})
	<-s.stopped
	defer s.cancel()
	for _, slot := range s.slots {
		select {
		case <-slot.context.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		for _, dropped := range slot.context.Dropped() {
			s.logger.Warn("result dropped at shutdown", zap.Int("slot", slot.ID), zap.String("invocation", dropped.ID), zap.String("function", dropped.FunctionRef))
		}
	}
	return nil
}

func (s *Service) loop() {
	defer close(s.stopped)
	for {
		select {
		case call := <-s.submitCh:
			s.accept(call)
		case event := <-s.events:
			s.handle(event)
		case req := <-s.cancelCh:
			req.reply <- s.cancelCall(req.id)
		case reply := <-s.statsCh:
			reply <- s.snapshot()
		case <-s.closing:
			s.terminate()
			return
		}
	}
}

func (s *Service) accept(call *Call) {
	call.track(progress.Delta{Submitted: 1})
	s.pending.put(call)
	if slot := s.idleSlot(); slot != nil {
		s.assign(slot, call)
		return
	}
	s.backlog = append(s.backlog, call)
	s.logger.Debug("invocation queued", zap.String("invocation", call.ID()), zap.Int("queued", len(s.backlog)))
}

func (s *Service) idleSlot() *Slot {
	for _, slot := range s.slots {
		if slot.State == worker.StateIdle {
			return slot
		}
	}
	return nil
}

func (s *Service) assign(slot *Slot, call *Call) {
	slot.State = worker.StateBusy
	slot.InvocationID = call.ID()
	if err := slot.context.Submit(call.invocation); err != nil {
		slot.State = worker.StateIdle
		slot.InvocationID = ""
		s.pending.take(call.ID())
		call.resolve(nil, err)
		return
	}
	s.logger.Debug("invocation assigned", zap.String("invocation", call.ID()), zap.String("function", call.FunctionRef()), zap.Int("slot", slot.ID))
	s.notify(slot)
}

func (s *Service) handle(event worker.Event) {
	slot := s.slots[event.SlotID]
	if event.Generation != slot.Generation {
		return
	}
	switch event.Kind {
	case worker.EventReady:
		slot.State = worker.StateIdle
		s.notify(slot)
	case worker.EventResult:
		if slot.InvocationID == event.Result.ID {
			slot.State = worker.StateIdle
			slot.InvocationID = ""
			s.notify(slot)
		}
		if call := s.pending.take(event.Result.ID); call != nil {
			s.complete(call, event.Result)
		}
	case worker.EventExit:
		lost := slot.InvocationID
		slot.State = worker.StateTerminated
		s.notify(slot)
		if call := s.pending.take(lost); call != nil {
			call.resolve(nil, event.Err)
		}
		s.logger.Warn("respawning worker context", zap.Int("slot", slot.ID), zap.Int("generation", slot.Generation+1), zap.Error(event.Err))
		slot.context.Terminate()
		slot.Generation++
		s.spawn(slot)
		return
	}
	s.drain(slot)
}

func (s *Service) complete(call *Call, result *invocation.Result) {
	if result.Failed() {
		call.resolve(nil, result.Error)
		return
	}
	value, err := s.marshaler.Unpack(result.Value)
	call.resolve(value, err)
}

// drain hands the oldest queued call to an idle slot
func (s *Service) drain(slot *Slot) {
	for slot.State == worker.StateIdle && len(s.backlog) > 0 {
		call := s.backlog[0]
		s.backlog[0] = nil
		s.backlog = s.backlog[1:]
		if !s.pending.has(call.ID()) {
			continue
		}
		s.assign(slot, call)
	}
}

func (s *Service) spawn(slot *Slot) {
	slot.State = worker.StateSpawned
	slot.InvocationID = ""
	slot.context = worker.New(slot.ID, slot.Generation, s.executor, s.events, worker.WithLogger(s.logger))
	slot.context.Start(s.ctx)
	s.notify(slot)
}

func (s *Service) cancelCall(id string) bool {
	call := s.pending.take(id)
	if call == nil {
		return false
	}
	call.resolve(nil, types.ErrCancelled)
	for _, slot := range s.slots {
		if slot.InvocationID == id {
			slot.context.Interrupt(id)
		}
	}
	return true
}

func (s *Service) terminate() {
	for _, slot := range s.slots {
		slot.context.Terminate()
	}
	for _, call := range s.pending.drain() {
		call.resolve(nil, fmt.Errorf("dispatcher shut down: %w", types.ErrWorkerTerminated))
	}
	s.backlog = nil
	for _, slot := range s.slots {
		slot.State = worker.StateTerminated
		slot.InvocationID = ""
		s.notify(slot)
	}
}

func (s *Service) snapshot() Stats {
	ret := Stats{PoolSize: len(s.slots), Pending: s.pending.size()}
	for _, call := range s.backlog {
		if s.pending.has(call.ID()) {
			ret.Queued++
		}
	}
	for _, slot := range s.slots {
		switch slot.State {
		case worker.StateSpawned:
			ret.Spawned++
		case worker.StateIdle:
			ret.Idle++
		case worker.StateBusy:
			ret.Busy++
		case worker.StateTerminated:
			ret.Terminated++
		}
	}
	select {
	case <-s.closing:
		ret.Closed = true
	default:
	}
	return ret
}

func (s *Service) notify(slot *Slot) {
	if s.listener != nil {
		s.listener(slot.event())
	}
}
