// Package dispatcher routes invocations to a fixed pool of worker execution
// contexts.
//
// All bookkeeping (slots, pending calls, backlog) is owned by a single event
// loop goroutine. Callers and worker contexts talk to the loop over channels;
// arguments are marshaled on the caller goroutine so that transferred buffers
// are detached before Submit returns.
package dispatcher
