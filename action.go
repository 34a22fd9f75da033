package fsm

import "fmt"

func (b ActionBinding[S, E]) normalize() ActionBinding[S, E] {
	b.From = orAny(b.From)
	b.To = orAny(b.To)
	b.Via = orAny(b.Via)

	return b
}

func (b ActionBinding[S, E]) matches(from, to S, event E) bool {
	return b.From(from) && b.To(to) && b.Via(event)
}

// byTier returns the bindings ordered FIRST, NORMAL, LAST, preserving
// registration order inside each tier.
func byTier[S, E comparable](bindings []ActionBinding[S, E]) []ActionBinding[S, E] {
	sorted := make([]ActionBinding[S, E], 0, len(bindings))

	for _, tier := range []Tier{TierFirst, TierNormal, TierLast} {
		for _, b := range bindings {
			if b.Tier == tier {
				sorted = append(sorted, b)
			}
		}
	}

	return sorted
}

// runActions executes every binding matching the evaluated transition. The first
// failure stops the sequence.
func (m *Machine[S, E]) runActions(ctx *ActionContext[S, E]) error {
	for _, b := range m.def.bindings {
		if err := m.execute(b, ctx); err != nil {
			return &ErrAction{From: ctx.from, To: ctx.to, Event: ctx.event, Tier: b.Tier, Err: err}
		}
	}

	return nil
}

// execute runs the binding's action if its predicates accept the transition,
// routing it through the proxy when one is installed. Panics in the predicates,
// the proxy or the action are recovered.
func (m *Machine[S, E]) execute(b ActionBinding[S, E], ctx *ActionContext[S, E]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if !b.matches(ctx.from, ctx.to, ctx.event) {
		return nil
	}

	m.logger.Trace().
		Stringer("tier", b.Tier).
		Msg("executing action")

	if proxy := m.def.proxy; proxy != nil {
		return proxy(ctx, b.Action)
	}

	return b.Action(ctx)
}
