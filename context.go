package fsm

import (
	"context"

	"github.com/enetx/g"
)

// Context is handed to guards and actions. It is valid only while the guard or
// action that received it is running.
type Context[S, E comparable] struct {
	m     *Machine[S, E]
	event E
	sub   *submission[S]
}

// ActionContext is the Context passed to actions. From and To describe the
// transition that has already been committed.
type ActionContext[S, E comparable] struct {
	*Context[S, E]
	from S
	to   S
}

// State returns the current state of the machine. Inside an action this is
// already the post-transition state.
func (c *Context[S, E]) State() S { return c.m.Current() }

// Event returns the event under evaluation.
func (c *Context[S, E]) Event() E { return c.event }

// InstanceID returns the id of the machine evaluating the event.
func (c *Context[S, E]) InstanceID() uint64 { return c.m.id }

// Ctx returns the context.Context the originating submission was fired with.
// It carries values only; it is never cancelled.
func (c *Context[S, E]) Ctx() context.Context { return c.sub.ctx }

// FireEvent appends event to the tail of the machine's queue. The submission being
// evaluated does not complete until this event has been evaluated too.
func (c *Context[S, E]) FireEvent(event E) { c.m.enqueue(event, c.sub) }

// ShelveEvent parks event on the machine's shelf until ProcessShelvedEvents is called.
func (c *Context[S, E]) ShelveEvent(event E) { c.m.shelve(event) }

// ProcessShelvedEvents moves every event currently on the shelf to the head of the
// queue, preserving shelving order. Events shelved afterwards wait for the next call.
func (c *Context[S, E]) ProcessShelvedEvents() { c.m.unshelve(c.sub) }

func (c *Context[S, E]) store() *g.MapSafe[g.String, any] { return c.m.values }

// From returns the state the machine transitioned from.
func (c *ActionContext[S, E]) From() S { return c.from }

// To returns the state the machine transitioned to.
func (c *ActionContext[S, E]) To() S { return c.to }
