package types

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent JSON field from one explicitly set to
// null. Partial updates rely on this: absent fields are untouched, null
// fields clear the stored value.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(data, []byte("null")) {
		o.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}

	o.Valid = true
	return nil
}

// Ptr returns the value as a nullable pointer: nil when the field was
// explicitly null.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	value := o.Value
	return &value
}
