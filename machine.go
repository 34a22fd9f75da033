package fsm

import (
	"context"
	"time"

	"github.com/enetx/g"
)

// Interface compliance check.
var _ StateMachine[int, int] = (*Machine[int, int])(nil)

func newMachine[S, E comparable](def *Definition[S, E], initial S, opts ...Option) *Machine[S, E] {
	o := buildOptions(opts)
	id := nextInstanceID()

	return &Machine[S, E]{
		id:       id,
		def:      def,
		initial:  initial,
		opts:     opts,
		current:  initial,
		queue:    g.NewSlice[pending[S, E]](),
		shelf:    newShelf[E](),
		values:   g.NewMapSafe[g.String, any](),
		executor: o.executor,
		logger:   o.logger.With().Uint64("instance", id).Logger(),
		observer: o.observer,
	}
}

// Clone creates a new machine in the initial state sharing this machine's
// definition and options. State, queue, shelf and values are not copied.
func (m *Machine[S, E]) Clone() *Machine[S, E] {
	return newMachine(m.def, m.initial, m.opts...)
}

// Definition returns the immutable definition the machine was created from.
func (m *Machine[S, E]) Definition() *Definition[S, E] { return m.def }

// InstanceID returns the process-unique, monotonically assigned id of the machine.
func (m *Machine[S, E]) InstanceID() uint64 { return m.id }

// Current returns the machine's current state. Events still queued are not
// reflected.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.current
}

func (m *Machine[S, E]) setState(s S) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = s
}

// Pending returns the number of queued events that have not been evaluated yet.
func (m *Machine[S, E]) Pending() int {
	m.qmu.Lock()
	defer m.qmu.Unlock()

	return len(m.queue)
}

// Shelved returns the number of events currently on the shelf.
func (m *Machine[S, E]) Shelved() int {
	m.qmu.Lock()
	defer m.qmu.Unlock()

	return m.shelf.len()
}

func (m *Machine[S, E]) store() *g.MapSafe[g.String, any] { return m.values }

// FireEvent submits event for asynchronous evaluation and returns immediately.
// The queue is unbounded; producers outpacing the machine grow memory.
func (m *Machine[S, E]) FireEvent(event E) *Future[S] {
	return m.FireEventContext(context.Background(), event)
}

// FireEventContext is like FireEvent. ctx is exposed to guards and actions through
// Context.Ctx; its cancellation does not cancel the evaluation.
func (m *Machine[S, E]) FireEventContext(ctx context.Context, event E) *Future[S] {
	sub := newSubmission[S](ctx)
	m.enqueue(event, sub)

	return sub.future
}

// FireEventBlocking submits event and waits for its future. It must not be called
// from a guard or action of the same machine.
func (m *Machine[S, E]) FireEventBlocking(event E) (S, error) {
	return m.FireEvent(event).Wait()
}

// FireEventBlockingContext is like FireEventBlocking but stops waiting when ctx is done.
// The event is still evaluated.
func (m *Machine[S, E]) FireEventBlockingContext(ctx context.Context, event E) (S, error) {
	return m.FireEventContext(ctx, event).WaitContext(ctx)
}

// enqueue appends event to the tail of the queue on behalf of sub.
func (m *Machine[S, E]) enqueue(event E, sub *submission[S]) {
	// Notified before the push so EventQueued always precedes EventEvaluated.
	if m.observer != nil {
		m.observer.EventQueued(m.id)
	}

	m.qmu.Lock()
	sub.outstanding++
	m.queue.Push(pending[S, E]{event: event, sub: sub})
	start := m.claim()
	m.qmu.Unlock()

	if start {
		m.executor.Execute(m.pollAndEvaluate)
	}
}

func (m *Machine[S, E]) shelve(event E) {
	m.qmu.Lock()
	defer m.qmu.Unlock()

	m.shelf.push(event)
}

// unshelve snapshots the shelf and puts its events at the head of the queue in
// shelving order, attributing them to sub.
func (m *Machine[S, E]) unshelve(sub *submission[S]) {
	m.qmu.Lock()

	events := m.shelf.drain()
	if events.Empty() {
		m.qmu.Unlock()
		return
	}

	head := make(g.Slice[pending[S, E]], 0, len(events)+len(m.queue))
	for _, event := range events {
		head = append(head, pending[S, E]{event: event, sub: sub})
	}

	sub.outstanding += len(events)
	m.queue = append(head, m.queue...)
	start := m.claim()
	m.qmu.Unlock()

	// Only actions unshelve, so the worker cannot reach the replayed events
	// before the observer hears about them.
	if m.observer != nil {
		for range events {
			m.observer.EventQueued(m.id)
		}
	}

	m.logger.Debug().Int("events", len(events)).Msg("replaying shelved events")

	if start {
		m.executor.Execute(m.pollAndEvaluate)
	}
}

// claim marks the worker as running if there is work and no worker is scheduled.
// It must be called with qmu held.
func (m *Machine[S, E]) claim() bool {
	if m.running || m.queue.Empty() {
		return false
	}

	m.running = true

	return true
}

// pollAndEvaluate evaluates the event at the head of the queue and reschedules
// itself while the queue is non-empty. At most one pollAndEvaluate per machine is
// scheduled or running at any time.
func (m *Machine[S, E]) pollAndEvaluate() {
	m.qmu.Lock()
	if m.queue.Empty() {
		m.running = false
		m.qmu.Unlock()
		return
	}

	p := m.queue[0]
	m.queue[0] = pending[S, E]{}
	m.queue = m.queue[1:]
	m.qmu.Unlock()

	m.evaluate(p)

	m.qmu.Lock()
	p.sub.outstanding--
	done := p.sub.outstanding == 0
	// Read while the worker is still claimed; once running is cleared another
	// submission may change the state before the future resolves.
	state := m.Current()
	more := m.queue.NotEmpty()
	if !more {
		m.running = false
	}
	m.qmu.Unlock()

	if done {
		p.sub.resolve(state)
	}

	if more {
		m.executor.Execute(m.pollAndEvaluate)
	}
}

// evaluate runs match, state assignment and the action sequence for one event.
func (m *Machine[S, E]) evaluate(p pending[S, E]) {
	start := time.Now()
	from := m.Current()
	ctx := &Context[S, E]{m: m, event: p.event, sub: p.sub}

	ev := Evaluation{Instance: m.id, From: from, Event: p.event, To: from, Transition: noMatch}

	index, to, err := m.def.match(ctx, from, p.event)
	if err != nil {
		p.sub.fail(err)

		ev.Duration, ev.Err = time.Since(start), err
		m.record(ev)

		return
	}

	m.setState(to)
	ev.To, ev.Transition = to, index

	if err := m.runActions(&ActionContext[S, E]{Context: ctx, from: from, to: to}); err != nil {
		p.sub.fail(err)
		ev.Err = err
	}

	ev.Duration = time.Since(start)
	m.record(ev)
}
