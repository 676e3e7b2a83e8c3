// Package buffer provides the transferable byte buffer handle. A buffer is
// owned by exactly one side of the host/worker boundary at any time; once its
// region has been transferred the handle is detached and every access fails.
package buffer
