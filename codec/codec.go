// Package codec centralizes the encoding of keypoint files and frame
// snapshots.
//
// Snapshots record the codec name in their header, so data written with one
// codec is always decoded with the same one.
package codec

import (
	"errors"
	"fmt"
)

// ErrUnknownCodec is returned by Lookup for names without a built-in codec.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Lookup is ByName with an error for unknown names.
func Lookup(name string) (Codec, error) {
	c, ok := ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Decode unmarshals data into a new T using c, or Default if c is nil.
func Decode[T any](c Codec, data []byte) (T, error) {
	if c == nil {
		c = Default
	}
	var v T
	if err := c.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("codec %s unmarshal failed: %w", c.Name(), err)
	}
	return v, nil
}

// MustMarshal is a helper for tests and benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
