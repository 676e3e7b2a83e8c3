package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Update(t *testing.T) {
	var changes []Counters
	tracker := New("pool", func(c Counters) {
		changes = append(changes, c)
	})
	tracker.Update(Delta{Submitted: 3})
	tracker.Update(Delta{Completed: 1})
	tracker.Update(Delta{Failed: 1})

	snapshot := tracker.Snapshot()
	assert.Equal(t, "pool", snapshot.Name)
	assert.Equal(t, 3, snapshot.Submitted)
	assert.Equal(t, 1, snapshot.Outstanding())
	require.Len(t, changes, 3)
	assert.Equal(t, 2, changes[1].Outstanding())

	tracker.OnChange(nil)
	tracker.Update(Delta{Cancelled: 1})
	assert.Len(t, changes, 3)
	assert.Equal(t, 0, tracker.Snapshot().Outstanding())
}

func TestProgress_Concurrent(t *testing.T) {
	tracker := New("pool", nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Submitted: 1, Completed: 1})
		}()
	}
	wg.Wait()
	snapshot := tracker.Snapshot()
	assert.Equal(t, 50, snapshot.Submitted)
	assert.Equal(t, 50, snapshot.Completed)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	_, ok := FromContext(ctx)
	assert.False(t, ok)
	UpdateCtx(ctx, Delta{Submitted: 1})

	ctx, tracker := WithNewTracker(ctx, "batch", nil)
	UpdateCtx(ctx, Delta{Submitted: 2, Completed: 1})
	actual, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, tracker, actual)
	assert.Equal(t, 1, actual.Snapshot().Outstanding())

	var nilTracker *Progress
	nilTracker.Update(Delta{Submitted: 1})
	assert.Equal(t, Counters{}, nilTracker.Snapshot())
}
