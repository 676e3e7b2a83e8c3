package buffer

import (
	cbor "github.com/fxamacker/cbor/v2"
	"github.com/viant/xfer/model/types"
)

var cborNull = []byte{0xf6}

// MarshalCBOR encodes a copy of the region as a byte string so that a buffer
// nested in a cloned value keeps its content; a detached buffer cannot be encoded.
func (b *Buffer) MarshalCBOR() ([]byte, error) {
	if b == nil {
		return cborNull, nil
	}
	data, err := b.ReadBytes()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(data)
}

// UnmarshalCBOR makes the handle own a decoded copy of the region
func (b *Buffer) UnmarshalCBOR(encoded []byte) error {
	var data []byte
	if err := cbor.Unmarshal(encoded, &data); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateTransferred {
		return types.ErrDetachedAccess
	}
	b.data = data
	return nil
}

var (
	_ cbor.Marshaler   = (*Buffer)(nil)
	_ cbor.Unmarshaler = (*Buffer)(nil)
)
