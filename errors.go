package fsm

import "fmt"

// ErrGuard is returned when evaluating the transition table panics: a guard, a
// state or event predicate, or a target selector. The scan is abandoned, the
// state is left unchanged and no actions run for the event. The machine
// remains usable for later events.
type ErrGuard struct {
	// State is the state the machine was in when the guard ran.
	State any
	// Event is the event under evaluation.
	Event any
	// Index is the position of the failing rule in the transition table.
	Index int
	// Err is the error created after recovering from the panic.
	Err error
}

func (e *ErrGuard) Error() string {
	return fmt.Sprintf("fsm: transition %d failed in state %v on event %v: %v",
		e.Index, e.State, e.Event, e.Err)
}

// Unwrap provides compatibility with the standard library's errors package,
// allowing the use of errors.Is and errors.As to inspect the wrapped error.
func (e *ErrGuard) Unwrap() error { return e.Err }

// ErrAction is returned when an action (or the action proxy wrapping it) returns
// an error or panics. The transition has already been committed when this happens;
// the remaining actions of the evaluation are skipped.
type ErrAction struct {
	From  any
	To    any
	Event any
	// Tier is the tier of the failing action binding.
	Tier Tier
	// Err is the original error returned by the action or the error created after recovering from a panic.
	Err error
}

func (e *ErrAction) Error() string {
	return fmt.Sprintf("fsm: %s action failed on %v -(%v)-> %v: %v", e.Tier, e.From, e.Event, e.To, e.Err)
}

// Unwrap provides compatibility with the standard library's errors package,
// allowing the use of errors.Is and errors.As to inspect the wrapped error.
func (e *ErrAction) Unwrap() error { return e.Err }
