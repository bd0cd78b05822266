package game

import (
	"errors"
	"fmt"
)

// ErrIllegalAction marks a precondition failure at execution time
// (insufficient mana, illegal target, missing prerequisite). The offending
// action is cancelled; the rest of the batch still runs and the caller sees
// the failure in that action's result slot.
var ErrIllegalAction = errors.New("illegal action")

// ErrNotFound marks a lookup of an identifier that is not in the expected
// container. It halts resolution of the current batch.
var ErrNotFound = errors.New("not found")

// ErrInvariant marks a programming defect: zone/container desync, an
// attribute query against a type that lacks it, and the like. Resolution
// halts rather than continuing on corrupted state.
var ErrInvariant = errors.New("invariant violation")

// InvariantError carries the detail of an ErrInvariant condition. Internal
// code raises it via panic; QueueActions recovers it at the batch boundary.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvariant, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

// invariantf aborts the current batch with an invariant violation.
func invariantf(format string, args ...any) {
	panic(&InvariantError{Detail: fmt.Sprintf(format, args...)})
}
