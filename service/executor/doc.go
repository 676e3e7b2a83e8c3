// Package executor runs a single invocation inside a worker context: it
// resolves the function reference against the registration table, unpacks
// the arguments, calls the entry point and packs the returned value. Any
// failure, including a panic, is captured in the returned result and never
// escapes the worker context.
package executor
