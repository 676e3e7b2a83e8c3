package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xfer/model/invocation"
)

func TestQueue(t *testing.T) {
	queue := NewQueue[invocation.Invocation](DefaultConfig())
	ctx := context.Background()
	payload := invocation.Invocation{ID: "inv-1", FunctionRef: "echo.bytes"}

	err := queue.Publish(ctx, &payload)
	assert.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, message.ID())
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, payload.ID, message.T().ID)
	assert.Equal(t, payload.FunctionRef, message.T().FunctionRef)

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
	assert.Error(t, message.Nack(nil))
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[invocation.Invocation](config)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &invocation.Invocation{ID: "retry"}))
	for i := 0; i < 3; i++ {
		consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
		message, err := queue.Consume(consumeCtx)
		cancel()
		require.NoError(t, err, "attempt %d", i)
		assert.Equal(t, "retry", message.T().ID)
		assert.NoError(t, message.Nack(fmt.Errorf("attempt %d", i)))
	}

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestInboxDeadLetter(t *testing.T) {
	queue := NewQueue[invocation.Invocation](InboxConfig())
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &invocation.Invocation{ID: "lost"}))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	reason := errors.New("worker stopped")
	require.NoError(t, message.Nack(reason))

	assert.Equal(t, 1, queue.DLQSize())
	letters := queue.DeadLetters()
	require.Len(t, letters, 1)
	assert.Equal(t, "lost", letters[0].ID)
}

func TestQueueConcurrency(t *testing.T) {
	queue := NewQueue[invocation.Invocation](DefaultConfig())
	ctx := context.Background()
	concurrency := 10
	messagesPerProducer := 10

	var wg sync.WaitGroup
	wg.Add(concurrency * 2)
	var consumed sync.Map

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				message, err := queue.Consume(ctx)
				if err != nil {
					t.Errorf("consume: %v", err)
					return
				}
				assert.NoError(t, message.Ack())
				consumed.Store(message.T().ID, true)
			}
		}()
	}
	for i := 0; i < concurrency; i++ {
		go func(producerID int) {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				inv := invocation.Invocation{ID: fmt.Sprintf("p%d-m%d", producerID, j)}
				if err := queue.Publish(ctx, &inv); err != nil {
					t.Errorf("publish: %v", err)
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("test timed out")
	}

	count := 0
	consumed.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, concurrency*messagesPerProducer, count)
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[invocation.Invocation](InboxConfig())
	payload := invocation.Invocation{ID: "test"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, queue.Publish(ctx, &payload))

	timeoutCtx, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(timeoutCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, queue.Publish(context.Background(), &payload))
	message, err := queue.Consume(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, message)
}
