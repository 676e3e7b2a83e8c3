// Package policy holds the type defaults of the marshaling policy: how buffer
// handles and raw byte sequences cross the host/worker boundary when a call
// does not annotate them. A policy can be configured declaratively and
// overridden per call through the context.
package policy
