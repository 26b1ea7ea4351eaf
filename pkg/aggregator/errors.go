package aggregator

import (
	"errors"
	"fmt"
)

var (
	// ErrChainTooLong is returned when an evolution chain is deeper than
	// the configured step ceiling.
	ErrChainTooLong = errors.New("evolution chain too long")
	// ErrInvalidArgument signals a request the upstream should never see.
	ErrInvalidArgument = errors.New("invalid argument")
)

// DetailError wraps a fatal failure while assembling one pokemon.
type DetailError struct {
	Identifier string
	Err        error
}

func (e *DetailError) Error() string {
	return fmt.Sprintf("could not get details for pokemon %q: %v", e.Identifier, e.Err)
}

func (e *DetailError) Unwrap() error { return e.Err }

// ListError wraps a failed index fetch.
type ListError struct {
	Offset int
	Limit  int
	Err    error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("could not list pokemon (offset=%d, limit=%d): %v", e.Offset, e.Limit, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

// TypeError wraps a failed type member fetch.
type TypeError struct {
	Name string
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("could not list pokemon of type %q: %v", e.Name, e.Err)
}

func (e *TypeError) Unwrap() error { return e.Err }

// ItemFailure is one item left out of an aggregate. It is reported to the
// caller instead of failing the whole result.
type ItemFailure struct {
	Op   string
	Item string
	Err  error
}

func (f ItemFailure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Item, f.Err)
}

func (f ItemFailure) Unwrap() error { return f.Err }
