package fsm

// Definition is the immutable configuration shared by every machine created from it:
// an ordered transition table, tier-ordered action bindings and an optional proxy.
type Definition[S, E comparable] struct {
	transitions []Transition[S, E]
	bindings    []ActionBinding[S, E]
	proxy       ActionProxy[S, E]
}

// NewDefinition freezes the given rules. The slices are copied; later changes
// to them do not affect the definition.
func NewDefinition[S, E comparable](
	transitions []Transition[S, E],
	bindings []ActionBinding[S, E],
	proxy ActionProxy[S, E],
) *Definition[S, E] {
	d := &Definition[S, E]{
		transitions: make([]Transition[S, E], 0, len(transitions)),
		proxy:       proxy,
	}

	for _, t := range transitions {
		d.transitions = append(d.transitions, t.normalize())
	}

	normalized := make([]ActionBinding[S, E], 0, len(bindings))
	for _, b := range bindings {
		if b.Action == nil {
			continue
		}

		normalized = append(normalized, b.normalize())
	}

	d.bindings = byTier(normalized)

	return d
}

// New creates a machine in the initial state.
func (d *Definition[S, E]) New(initial S, opts ...Option) *Machine[S, E] {
	return newMachine(d, initial, opts...)
}

// Transitions returns the number of rules in the transition table.
func (d *Definition[S, E]) Transitions() int { return len(d.transitions) }

// Bindings returns the number of action bindings.
func (d *Definition[S, E]) Bindings() int { return len(d.bindings) }
