// Package progress keeps aggregated call outcome counters. The dispatcher
// maintains one tracker for its whole lifetime; a caller can also embed its own
// tracker in the context passed to Submit to follow a batch of calls.
package progress
