package fsm

import "github.com/enetx/g"

// shelf is the per-instance holding area for deferred events. It is guarded by
// the machine's queue lock.
type shelf[E comparable] struct {
	events g.Slice[E]
}

func newShelf[E comparable]() *shelf[E] { return &shelf[E]{events: g.NewSlice[E]()} }

func (s *shelf[E]) push(event E) { s.events.Push(event) }

// drain returns the shelved events in shelving order and leaves the shelf empty.
func (s *shelf[E]) drain() g.Slice[E] {
	events := s.events
	s.events = g.NewSlice[E]()

	return events
}

func (s *shelf[E]) len() int { return len(s.events) }
