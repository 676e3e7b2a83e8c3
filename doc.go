// Package xfer dispatches invocations of registered functions to a fixed pool
// of isolated worker execution contexts. Binary buffers cross the boundary
// either by copy or by ownership transfer:
//
//	srv, _ := xfer.New(xfer.WithPoolSize(2))
//	_ = srv.Start(ctx)
//	defer srv.Shutdown(ctx)
//	data := buffer.New(payload)
//	out, err := srv.Run(ctx, "echo.buffer", []interface{}{data}, invocation.Transfer(0))
//	// data is now detached; out holds the returned buffer
//
// The root package wires the function registry, marshaler, dispatcher,
// logging and tracing from a single Config. See the sub-packages for details.
package xfer
