package utils

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes three states of a JSON field: absent from the body
// (Set=false), present with null (Set=true, Valid=false), and present with a
// value (Set=true, Valid=true). encoding/json never calls UnmarshalJSON for
// absent fields, which is what makes the Set flag reliable.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

var jsonNull = []byte("null")

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}
