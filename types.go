// Package fsm provides an embeddable finite state machine runtime with
// asynchronous, strictly ordered event evaluation.
//
// A Builder assembles an immutable Definition (an ordered transition table and
// an ordered list of action bindings). Each Machine created from a Definition
// owns its current state, a private event queue and an event shelf. Events are
// evaluated one at a time on a pluggable Executor; callers observe completion
// through a Future.
package fsm

import (
	"sync"
	"sync/atomic"

	"github.com/enetx/g"
	"github.com/rs/zerolog"
)

type (
	// Guard determines whether a candidate transition may be taken.
	// A guard returning false skips that candidate; matching continues with the next one.
	Guard[S, E comparable] func(ctx *Context[S, E]) bool

	// Action is executed after a transition has been selected and the new state assigned.
	Action[S, E comparable] func(ctx *ActionContext[S, E]) error

	// ActionProxy intercepts every action invocation of a machine.
	// The proxy must call action itself for the action to take effect.
	ActionProxy[S, E comparable] func(ctx *ActionContext[S, E], action Action[S, E]) error

	// Tier is the execution-order class of an action binding.
	Tier int

	// Transition is a single rule of the transition table.
	Transition[S, E comparable] struct {
		// From matches the current state. Nil matches any state.
		From func(S) bool
		// Via matches the event under evaluation. Nil matches any event.
		Via func(E) bool
		// Guard optionally vetoes this rule.
		Guard Guard[S, E]
		// Target selects the next state. Nil keeps the current state.
		Target func(S, E) S
		// Internal transitions never change state.
		Internal bool
	}

	// ActionBinding binds an action to every transition whose (from, to, event)
	// triple satisfies all three predicates. Nil predicates match anything.
	ActionBinding[S, E comparable] struct {
		From   func(S) bool
		To     func(S) bool
		Via    func(E) bool
		Action Action[S, E]
		Tier   Tier
	}

	// pending is a queued event together with the submission it belongs to.
	pending[S, E comparable] struct {
		event E
		sub   *submission[S]
	}

	// Machine is a live state machine instance.
	Machine[S, E comparable] struct {
		id      uint64
		def     *Definition[S, E]
		initial S
		opts    []Option

		mu      sync.RWMutex
		current S

		qmu     sync.Mutex
		queue   g.Slice[pending[S, E]]
		shelf   *shelf[E]
		running bool

		values   *g.MapSafe[g.String, any]
		executor Executor
		logger   zerolog.Logger
		observer Observer
	}
)

const (
	// TierFirst actions run before every other action of a transition.
	TierFirst Tier = iota
	// TierNormal is the tier used by Execute.
	TierNormal
	// TierLast actions run after every other action of a transition.
	TierLast
)

func (t Tier) String() string {
	switch t {
	case TierFirst:
		return "first"
	case TierNormal:
		return "normal"
	case TierLast:
		return "last"
	default:
		return "unknown"
	}
}

var instanceID atomic.Uint64

func nextInstanceID() uint64 { return instanceID.Add(1) - 1 }
