package worker

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xfer/model/invocation"
	"github.com/viant/xfer/model/types"
)

type executorFunc func(ctx context.Context, anInvocation *invocation.Invocation) *invocation.Result

func (f executorFunc) Execute(ctx context.Context, anInvocation *invocation.Invocation) *invocation.Result {
	return f(ctx, anInvocation)
}

func next(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker event")
	}
	return Event{}
}

func TestContext_Execute(t *testing.T) {
	events := make(chan Event, 4)
	var slot int
	exec := executorFunc(func(ctx context.Context, anInvocation *invocation.Invocation) *invocation.Result {
		slot = types.WorkerSlot(ctx)
		return invocation.NewResult(anInvocation.ID, &invocation.Payload{Kind: invocation.KindValue, Value: anInvocation.FunctionRef})
	})
	worker := New(3, 0, exec, events)
	assert.Equal(t, StateSpawned, worker.State())
	worker.Start(context.Background())
	defer worker.Terminate()

	ready := next(t, events)
	assert.Equal(t, EventReady, ready.Kind)
	assert.Equal(t, 3, ready.SlotID)
	assert.Equal(t, StateIdle, worker.State())

	for _, id := range []string{"1", "2"} {
		require.NoError(t, worker.Submit(&invocation.Invocation{ID: id, FunctionRef: "echo.value"}))
		event := next(t, events)
		require.Equal(t, EventResult, event.Kind)
		assert.Equal(t, id, event.Result.ID)
		assert.Equal(t, "echo.value", event.Result.Value.Value)
	}
	assert.Equal(t, 3, slot)
	assert.Equal(t, StateIdle, worker.State())
}

func TestContext_UnexpectedExit(t *testing.T) {
	events := make(chan Event, 4)
	exec := executorFunc(func(ctx context.Context, anInvocation *invocation.Invocation) *invocation.Result {
		runtime.Goexit()
		return nil
	})
	worker := New(0, 2, exec, events)
	worker.Start(context.Background())
	next(t, events)

	require.NoError(t, worker.Submit(&invocation.Invocation{ID: "lost"}))
	event := next(t, events)
	assert.Equal(t, EventExit, event.Kind)
	assert.Equal(t, 2, event.Generation)
	assert.Equal(t, "lost", event.InvocationID)
	assert.True(t, errors.Is(event.Err, types.ErrWorkerTerminated))

	<-worker.Done()
	assert.Equal(t, StateTerminated, worker.State())
	assert.True(t, errors.Is(worker.Submit(&invocation.Invocation{ID: "x"}), types.ErrWorkerTerminated))
}

func TestContext_Terminate(t *testing.T) {
	events := make(chan Event, 4)
	worker := New(0, 0, executorFunc(func(ctx context.Context, anInvocation *invocation.Invocation) *invocation.Result {
		return invocation.NewFailure(anInvocation.ID, errors.New("unused"))
	}), events)
	worker.Start(context.Background())
	next(t, events)

	worker.Terminate()
	select {
	case <-worker.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, StateTerminated, worker.State())
	assert.Len(t, events, 0)
}

func TestContext_Interrupt(t *testing.T) {
	events := make(chan Event, 4)
	started := make(chan struct{})
	exec := executorFunc(func(ctx context.Context, anInvocation *invocation.Invocation) *invocation.Result {
		close(started)
		<-ctx.Done()
		return invocation.NewFailure(anInvocation.ID, ctx.Err())
	})
	worker := New(0, 0, exec, events)
	worker.Start(context.Background())
	defer worker.Terminate()
	next(t, events)

	require.NoError(t, worker.Submit(&invocation.Invocation{ID: "slow"}))
	<-started
	assert.Equal(t, StateBusy, worker.State())
	assert.False(t, worker.Interrupt("other"))
	assert.True(t, worker.Interrupt("slow"))

	event := next(t, events)
	require.Equal(t, EventResult, event.Kind)
	assert.True(t, errors.Is(event.Result.Error, context.Canceled))
}

func TestContext_Dropped(t *testing.T) {
	events := make(chan Event)
	started := make(chan struct{})
	exec := executorFunc(func(ctx context.Context, anInvocation *invocation.Invocation) *invocation.Result {
		close(started)
		<-ctx.Done()
		return invocation.NewFailure(anInvocation.ID, ctx.Err())
	})
	worker := New(1, 0, exec, events)
	worker.Start(context.Background())
	next(t, events)
	assert.Empty(t, worker.Dropped())

	require.NoError(t, worker.Submit(&invocation.Invocation{ID: "undelivered", FunctionRef: "echo.value"}))
	<-started
	worker.Terminate()
	select {
	case <-worker.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	dropped := worker.Dropped()
	require.Len(t, dropped, 1)
	assert.Equal(t, "undelivered", dropped[0].ID)
	assert.Equal(t, "echo.value", dropped[0].FunctionRef)
}
