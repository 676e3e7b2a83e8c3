// Package marshal implements the marshaling policy applied to every argument
// and return value that crosses the host/worker boundary.
//
// A directive is resolved per value in precedence order: the explicit per-call
// annotation, then the function's declared result directive, then the type
// default held by the policy. Buffer handles are copied or transferred,
// unwrapped []byte values are copied once and the copy's region moved, scalars
// pass by value and any other value is structured-cloned through CBOR.
package marshal
