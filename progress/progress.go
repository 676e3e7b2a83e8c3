package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change
type Delta struct {
	Submitted int
	Completed int
	Failed    int
	Cancelled int
}

// Counters is a point in time copy of a tracker
type Counters struct {
	Name      string
	StartedAt time.Time

	Submitted int
	Completed int
	Failed    int
	Cancelled int
}

// Outstanding returns the number of submitted calls not resolved yet
func (c Counters) Outstanding() int {
	return c.Submitted - c.Completed - c.Failed - c.Cancelled
}

// Progress keeps aggregated counters. It is safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	counters Counters
	onChange func(Counters)
}

// Update applies the supplied delta. The onChange callback, if any, is
// invoked with a copy of the counters outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.counters.Submitted += d.Submitted
	p.counters.Completed += d.Completed
	p.counters.Failed += d.Failed
	p.counters.Cancelled += d.Cancelled
	snapshot := p.counters
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters
}

// OnChange registers a callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

// New creates a tracker
func New(name string, onChange func(Counters)) *Progress {
	return &Progress{
		counters: Counters{Name: name, StartedAt: time.Now()},
		onChange: onChange,
	}
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and returns both.
func WithNewTracker(ctx context.Context, name string, onChange func(Counters)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := New(name, onChange)
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx; ok is false when ctx carries none.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies the delta to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
