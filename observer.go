package fsm

import (
	"fmt"
	"time"
)

// Evaluation describes one completed evaluation of an event.
type Evaluation struct {
	Instance uint64
	From     any
	Event    any
	To       any
	// Transition is the index of the matched rule, or -1 when no rule matched.
	Transition int
	Duration   time.Duration
	Err        error
}

// Matched reports whether a rule of the transition table accepted the event.
func (e Evaluation) Matched() bool { return e.Transition != noMatch }

// Observer receives machine lifecycle notifications. Implementations must be
// safe for concurrent use; one observer is usually shared by many machines.
type Observer interface {
	EventQueued(instance uint64)
	EventEvaluated(ev Evaluation)
}

// record emits the diagnostic record of an evaluation.
func (m *Machine[S, E]) record(ev Evaluation) {
	e := m.logger.Debug()
	if ev.Err != nil {
		e = m.logger.Warn().Err(ev.Err)
	}

	if e.Enabled() {
		e = e.Str("from", fmt.Sprint(ev.From)).
			Str("event", fmt.Sprint(ev.Event)).
			Str("to", fmt.Sprint(ev.To))

		if ev.Matched() {
			e = e.Int("transition", ev.Transition)
		} else {
			e = e.Str("transition", "no-match")
		}

		e.Dur("took", ev.Duration).Msg("evaluated")
	}

	if m.observer != nil {
		m.observer.EventEvaluated(ev)
	}
}
