// Package worker implements the isolated execution context. A context runs
// on its own goroutine, consumes one invocation at a time from its inbox,
// executes it and reports the result to the dispatcher as an Event. Its
// lifecycle is Spawned → Idle → Busy → Idle … → Terminated.
package worker
