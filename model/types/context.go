package types

import "context"

type workerContextKey string

// WorkerContextKey carries the slot id of the executing worker context
var WorkerContextKey = workerContextKey("worker-slot")

// WithWorkerSlot returns ctx annotated with the executing slot id
func WithWorkerSlot(ctx context.Context, slotID int) context.Context {
	return context.WithValue(ctx, WorkerContextKey, slotID)
}

// WorkerSlot returns the executing slot id, or -1 outside a worker context
func WorkerSlot(ctx context.Context) int {
	if v, ok := ctx.Value(WorkerContextKey).(int); ok {
		return v
	}
	return -1
}
