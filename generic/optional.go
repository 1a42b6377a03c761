package generic

import (
	"bytes"
	"encoding/json"
)

// Optional holds a value that may be absent. The zero value is None.
//
// Records use it for fields the dataset may omit (a project's loan, a
// milestone's actual end date) so that every reader has to decide what the
// absent case means instead of silently getting a zero value.
type Optional[T any] struct {
	value T
	set   bool
}

// Some wraps v as a present value.
func Some[T any](v T) Optional[T] { return Optional[T]{value: v, set: true} }

// None is the absent value.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool { return o.set }

// OrElse returns the value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// MarshalJSON encodes None as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON treats null as None. Absent keys never reach here and stay None.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
