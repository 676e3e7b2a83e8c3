package worker

// State represents execution context state
type State int32

const (
	StateSpawned State = iota
	StateIdle
	StateBusy
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateSpawned:
		return "spawned"
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// EventKind identifies a context event
type EventKind int

const (
	// EventReady is sent once the context is able to accept work.
	EventReady EventKind = iota
	// EventResult carries an invocation result.
	EventResult
	// EventExit is sent when the context stops without being terminated.
	EventExit
)

// Event is a message from a context to its dispatcher
type Event struct {
	Kind       EventKind
	SlotID     int
	Generation int
	Result     *Result
	// InvocationID is the in-flight invocation lost with an exited context.
	InvocationID string
	Err          error
}
