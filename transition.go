package fsm

import (
	"fmt"
	"reflect"
)

// noMatch is the transition index reported when no rule accepted an event.
const noMatch = -1

// Is returns a predicate matching values equal to v.
func Is[T comparable](v T) func(T) bool {
	return func(x T) bool { return x == v }
}

// Any returns a predicate matching every value.
func Any[T any]() func(T) bool {
	return func(T) bool { return true }
}

// TypeOf returns a predicate matching values whose dynamic type equals the dynamic
// type of sample. It is useful when E is an interface type.
func TypeOf[T any](sample T) func(T) bool {
	want := reflect.TypeOf(sample)
	return func(x T) bool { return reflect.TypeOf(x) == want }
}

// OfType returns a predicate matching events whose dynamic type is T.
func OfType[T any, E any]() func(E) bool {
	return func(e E) bool {
		_, ok := any(e).(T)
		return ok
	}
}

func orAny[T any](p func(T) bool) func(T) bool {
	if p == nil {
		return Any[T]()
	}

	return p
}

// normalize fills in the optional parts of a rule so the matcher only ever
// evaluates one predicate shape.
func (t Transition[S, E]) normalize() Transition[S, E] {
	t.From = orAny(t.From)
	t.Via = orAny(t.Via)

	if t.Target == nil {
		t.Internal = true
	}

	if t.Internal {
		t.Target = func(s S, _ E) S { return s }
	}

	return t
}

// match scans the table in definition order and returns the index of the first
// rule accepting (state, event) whose guard passes, together with its target.
// A panic in a predicate, guard or target selector aborts the scan.
func (d *Definition[S, E]) match(ctx *Context[S, E], state S, event E) (index int, to S, err error) {
	i := noMatch

	defer func() {
		if r := recover(); r != nil {
			index, to = noMatch, state
			err = &ErrGuard{State: state, Event: event, Index: i, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	for i = range d.transitions {
		t := d.transitions[i]

		if !t.From(state) || !t.Via(event) {
			continue
		}

		if t.Guard != nil && !t.Guard(ctx) {
			continue
		}

		return i, t.Target(state, event), nil
	}

	return noMatch, state, nil
}
