package buffer

import (
	"io"
	"sync"

	"github.com/viant/xfer/model/types"
)

// State represents buffer ownership state
type State int

const (
	// StateOwned means the handle owns its region.
	StateOwned State = iota
	// StateTransferred means the region moved to another context.
	StateTransferred
)

func (s State) String() string {
	if s == StateTransferred {
		return "transferred"
	}
	return "owned"
}

// Buffer is a contiguous byte region with an ownership state
type Buffer struct {
	mu    sync.Mutex
	data  []byte
	state State
}

// New creates an owned buffer wrapping a private copy of data
func New(data []byte) *Buffer {
	return &Buffer{data: append(make([]byte, 0, len(data)), data...)}
}

// Adopt wraps a region whose ownership was moved to the caller, without copying.
func Adopt(region []byte) *Buffer {
	if region == nil {
		region = []byte{}
	}
	return &Buffer{data: region}
}

// State returns the ownership state
func (b *Buffer) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Detached returns true once the region has been transferred
func (b *Buffer) Detached() bool {
	return b.State() == StateTransferred
}

// Len returns the region length, 0 once detached
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// ReadBytes returns a fresh copy of the region
func (b *Buffer) ReadBytes() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateTransferred {
		return nil, types.ErrDetachedAccess
	}
	return append(make([]byte, 0, len(b.data)), b.data...), nil
}

// ReadAt implements io.ReaderAt
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateTransferred {
		return 0, types.ErrDetachedAccess
	}
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt; writes never grow the region
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateTransferred {
		return 0, types.ErrDetachedAccess
	}
	if off < 0 || off+int64(len(p)) > int64(len(b.data)) {
		return 0, io.ErrShortWrite
	}
	return copy(b.data[off:], p), nil
}

// MarkTransferred detaches the handle. Only the first call changes state;
// any later call leaves the buffer as is and returns ErrAlreadyDetached.
func (b *Buffer) MarkTransferred() error {
	_, err := b.Detach()
	return err
}

// Detach atomically moves the region out of the handle and returns it.
func (b *Buffer) Detach() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateTransferred {
		return nil, types.ErrAlreadyDetached
	}
	region := b.data
	b.data = nil
	b.state = StateTransferred
	return region, nil
}

var (
	_ io.ReaderAt = (*Buffer)(nil)
	_ io.WriterAt = (*Buffer)(nil)
)
