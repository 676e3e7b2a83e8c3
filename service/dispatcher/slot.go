package dispatcher

import "github.com/viant/xfer/service/worker"

// Slot is a pool position hosting one worker context at a time
type Slot struct {
	ID           int
	State        worker.State
	InvocationID string
	Generation   int

	context *worker.Context
}

// SlotEvent describes a slot state change
type SlotEvent struct {
	SlotID       int
	Generation   int
	State        worker.State
	InvocationID string
}

// Listener observes slot state changes; it is called on the event loop and must not block
type Listener func(event SlotEvent)

// Stats is a snapshot of the pool
type Stats struct {
	PoolSize   int
	Spawned    int
	Idle       int
	Busy       int
	Terminated int
	// Pending counts calls awaiting a result, Queued those not yet assigned to a slot.
	Pending int
	Queued  int
	Closed  bool
}

func (s *Slot) event() SlotEvent {
	return SlotEvent{SlotID: s.ID, Generation: s.Generation, State: s.State, InvocationID: s.InvocationID}
}
