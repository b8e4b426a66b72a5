package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an investment or meta row does not exist for the
// caller. Ownership misses map to the same error so handlers never reveal
// whether a foreign id exists.
var ErrNotFound = errors.New("investment not found")

// ValidationError rejects user-correctable input before any storage work.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// CapacityError rejects an admission that does not fit the remaining funding
// capacity. It carries the current ledger view so the client can retry with a
// corrected amount. FullyFunded distinguishes "nothing left" from "too much".
type CapacityError struct {
	TargetAmount  float64
	TotalInvested float64
	Remaining     float64
	FullyFunded   bool
}

func (e *CapacityError) Error() string {
	if e.FullyFunded {
		return "property is fully funded"
	}
	return fmt.Sprintf("amount exceeds remaining capacity (%.2f)", e.Remaining)
}

// InvalidTransitionError is returned when an operation is applied to an
// investment whose status does not permit it, e.g. reviewing a cancellation
// that was never requested.
type InvalidTransitionError struct {
	Status string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s investment in status %s", e.Action, e.Status)
}
