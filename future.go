package fsm

import (
	"context"
	"sync"
)

// Future is the completion handle of a submitted event. It resolves once the event
// and every event transitively fired while evaluating it have been evaluated.
type Future[S comparable] struct {
	done  chan struct{}
	state S
	err   error
}

// Done returns a channel that is closed when the future resolves.
func (f *Future[S]) Done() <-chan struct{} { return f.done }

// Wait blocks until the future resolves and returns the machine state at that
// point together with the first failure of the submission.
func (f *Future[S]) Wait() (S, error) {
	<-f.done
	return f.state, f.err
}

// WaitContext is like Wait but gives up when ctx is done. Giving up does not
// cancel the evaluation.
func (f *Future[S]) WaitContext(ctx context.Context) (S, error) {
	select {
	case <-f.done:
		return f.state, f.err
	case <-ctx.Done():
		var zero S
		return zero, ctx.Err()
	}
}

// submission tracks the outstanding events of one FireEvent call.
type submission[S comparable] struct {
	ctx         context.Context
	future      *Future[S]
	outstanding int
	err         error
	once        sync.Once
}

func newSubmission[S comparable](ctx context.Context) *submission[S] {
	return &submission[S]{
		ctx:    context.WithoutCancel(ctx),
		future: &Future[S]{done: make(chan struct{})},
	}
}

func (s *submission[S]) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *submission[S]) resolve(state S) {
	s.once.Do(func() {
		s.future.state = state
		s.future.err = s.err
		close(s.future.done)
	})
}
