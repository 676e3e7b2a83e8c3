package marshal

import (
	"fmt"
	"reflect"

	cbor "github.com/fxamacker/cbor/v2"
	"github.com/viant/xfer/model/types"
)

var defaultMapType = reflect.TypeOf(map[string]interface{}(nil))

type cloner struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCloner() (*cloner, error) {
	encOptions := cbor.CanonicalEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	enc, err := encOptions.EncMode()
	if err != nil {
		return nil, err
	}
	dec, err := cbor.DecOptions{DefaultMapType: defaultMapType}.DecMode()
	if err != nil {
		return nil, err
	}
	return &cloner{enc: enc, dec: dec}, nil
}

func (c *cloner) encode(value interface{}) ([]byte, error) {
	data, err := c.enc.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %w", types.ErrDataClone, value, err)
	}
	return data, nil
}

func (c *cloner) decode(data []byte, rType reflect.Type) (interface{}, error) {
	if rType == nil {
		return nil, fmt.Errorf("%w: missing clone type", types.ErrDataClone)
	}
	target := reflect.New(rType)
	if err := c.dec.Unmarshal(data, target.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %v: %v", types.ErrDataClone, rType, err)
	}
	return target.Elem().Interface(), nil
}

// isScalar reports whether value is immutable and can be passed as is
func isScalar(value interface{}) bool {
	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}
