package fsm

import "context"

type StateMachine[S, E comparable] interface {
	FireEvent(E) *Future[S]
	FireEventContext(context.Context, E) *Future[S]
	FireEventBlocking(E) (S, error)
	FireEventBlockingContext(context.Context, E) (S, error)
	Current() S
	InstanceID() uint64
	Pending() int
	Shelved() int
}
