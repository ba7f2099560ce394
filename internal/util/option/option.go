package option

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Option is a type can be in one of two states: `Some(T)` or `None`.
//
// https://doc.rust-lang.org/std/option/
type Option[T any] struct {
	value T
	some  bool
}

// Some(T) creates an Option that holds a value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, some: true}
}

// None[T]() creates a *typed* Option that doesnt hold anything.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPtr is `None` for a nil pointer and `Some(*ptr)` otherwise.
func FromPtr[T any](ptr *T) Option[T] {
	if ptr == nil {
		return None[T]()
	}

	return Some(*ptr)
}

// NonEmpty is `Some(s)` unless s is "".
func NonEmpty(s string) Option[string] {
	if s == "" {
		return None[string]()
	}

	return Some(s)
}

// IsSome returns true if the Option is a `Some(T)` variant.
func (o Option[T]) IsSome() bool {
	return o.some
}

// IsNone returns true if the Option is a `None` variant.
func (o Option[T]) IsNone() bool {
	return !o.some
}

// Unwrap returns the value contained in `Some` and true; or a zero value and false if the Option is None.
func (o Option[T]) Unwrap() (T, bool) {
	return o.value, o.some
}

// If the Option is `Some` returns contained value. Otherwise returns `ifNone`.
func (o Option[T]) UnwrapOr(ifNone T) T {
	if o.some {
		return o.value
	}

	return ifNone
}

// Returns `Some(f(T))` if the Option is `Some`. Otherwise `None`.
func Map[T, U any](o Option[T], f func(T) U) Option[U] {
	if v, isSome := o.Unwrap(); isSome {
		return Some(f(v))
	}

	return None[U]()
}

/*
First calls each function in order and returns the first `Some`. The functions after it are not called. If every
function returns `None` so does First.
*/
func First[T any](fs ...func() Option[T]) Option[T] {
	for _, f := range fs {
		if o := f(); o.some {
			return o
		}
	}

	return None[T]()
}

// UnmarshalJSON decodes `null` as `None` and anything else as `Some(T)`.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()

		return nil
	}

	var parsed T

	err := json.Unmarshal(data, &parsed)
	if err != nil {
		return fmt.Errorf("while JSON-unmarshaling Option[%T]: %w", parsed, err)
	}

	*o = Some[T](parsed)

	return nil
}

func (o Option[T]) MarshalJSON() ([]byte, error) {
	if t, isSome := o.Unwrap(); isSome {
		marshaled, err := json.Marshal(t)

		return marshaled, errors.Wrapf(err, "while marshaling %#v", t)
	}

	return []byte("null"), nil
}
