package domain

import "fmt"

// Result is an explicit success/failure union for use-case boundaries.
// Exactly one slot is ever populated. Reading the wrong slot is a programmer
// error and panics; expected business failures travel in the error slot as
// typed domain errors, they are never panics.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Success wraps a value in a successful Result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure wraps an error in a failed Result. A nil error panics: a failure
// without a cause is a bug at the call site, not a state worth representing.
func Failure[T any](err error) Result[T] {
	if err == nil {
		panic("domain: Failure called with nil error")
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the value slot is populated.
func (r Result[T]) IsSuccess() bool { return r.ok }

// IsFailure reports whether the error slot is populated.
func (r Result[T]) IsFailure() bool { return !r.ok }

// Value returns the success value. Panics on a failed Result.
func (r Result[T]) Value() T {
	if !r.ok {
		panic(fmt.Sprintf("domain: Value called on failed Result: %v", r.err))
	}
	return r.value
}

// Err returns the failure error. Panics on a successful Result.
func (r Result[T]) Err() error {
	if r.ok {
		panic("domain: Err called on successful Result")
	}
	return r.err
}
