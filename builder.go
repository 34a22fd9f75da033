package fsm

// Builder assembles a Definition with a fluent API. A Builder is not safe for
// concurrent use; the Definition it produces is.
//
//	b := fsm.NewBuilder[State, Event]()
//	b.When(Idle).On(Connect).TransitionTo(Loading).Execute(load)
//	b.OnInternalTransition(Idle).Via(Ping).Execute(pong)
//	m := b.Build(Idle)
type Builder[S, E comparable] struct {
	transitions []Transition[S, E]
	bindings    []ActionBinding[S, E]
	proxy       ActionProxy[S, E]
	def         *Definition[S, E]
}

// NewBuilder returns an empty builder.
func NewBuilder[S, E comparable]() *Builder[S, E] { return new(Builder[S, E]) }

// When starts a transition rule leaving state.
func (b *Builder[S, E]) When(state S) *WhenBuilder[S, E] {
	return &WhenBuilder[S, E]{b: b, from: state}
}

// OnInternalTransition starts an action binding for evaluations that leave the
// machine in state: unmatched events and rules targeting state itself.
func (b *Builder[S, E]) OnInternalTransition(state S) *ViaBuilder[S, E] {
	return b.OnTransitionFrom(state).To(state)
}

// OnTransitionFrom starts an action binding for transitions leaving state.
func (b *Builder[S, E]) OnTransitionFrom(state S) *FromBuilder[S, E] {
	return b.OnTransitionFromMatch(Is(state))
}

// OnTransitionFromMatch starts an action binding for transitions leaving any state accepted by filter.
func (b *Builder[S, E]) OnTransitionFromMatch(filter func(S) bool) *FromBuilder[S, E] {
	return &FromBuilder[S, E]{b: b, from: filter}
}

// OnTransitionTo starts an action binding for transitions entering state.
func (b *Builder[S, E]) OnTransitionTo(state S) *ToBuilder[S, E] {
	return b.OnTransitionToMatch(Is(state))
}

// OnTransitionToMatch starts an action binding for transitions entering any state accepted by filter.
func (b *Builder[S, E]) OnTransitionToMatch(filter func(S) bool) *ToBuilder[S, E] {
	return &ToBuilder[S, E]{b: b, to: filter}
}

// AddTransition appends a manually defined rule to the transition table.
func (b *Builder[S, E]) AddTransition(t Transition[S, E]) *Builder[S, E] {
	b.addTransition(t)
	return b
}

// AddActionBinding appends a manually defined action binding.
func (b *Builder[S, E]) AddActionBinding(binding ActionBinding[S, E]) *Builder[S, E] {
	b.addBinding(binding)
	return b
}

// SetActionProxy installs the proxy every action of the built machines is routed through.
func (b *Builder[S, E]) SetActionProxy(proxy ActionProxy[S, E]) *Builder[S, E] {
	b.proxy = proxy
	b.def = nil

	return b
}

// Definition freezes the rules registered so far. Consecutive calls without
// intervening registrations return the same Definition.
func (b *Builder[S, E]) Definition() *Definition[S, E] {
	if b.def == nil {
		b.def = NewDefinition(b.transitions, b.bindings, b.proxy)
	}

	return b.def
}

// Build creates a machine in the initial state.
func (b *Builder[S, E]) Build(initial S, opts ...Option) *Machine[S, E] {
	return b.Definition().New(initial, opts...)
}

func (b *Builder[S, E]) addTransition(t Transition[S, E]) int {
	b.transitions = append(b.transitions, t)
	b.def = nil

	return len(b.transitions) - 1
}

func (b *Builder[S, E]) addBinding(binding ActionBinding[S, E]) {
	b.bindings = append(b.bindings, binding)
	b.def = nil
}

// WhenBuilder selects the events triggering a rule.
type WhenBuilder[S, E comparable] struct {
	b    *Builder[S, E]
	from S
}

// On matches events equal to event.
func (w *WhenBuilder[S, E]) On(event E) *TargetBuilder[S, E] { return w.OnMatch(Is(event)) }

// OnTypeOf matches events with the same dynamic type as sample.
func (w *WhenBuilder[S, E]) OnTypeOf(sample E) *TargetBuilder[S, E] { return w.OnMatch(TypeOf(sample)) }

// OnMatch matches events accepted by filter.
func (w *WhenBuilder[S, E]) OnMatch(filter func(E) bool) *TargetBuilder[S, E] {
	return &TargetBuilder[S, E]{b: w.b, from: w.from, via: filter}
}

// OnAny matches every event.
func (w *WhenBuilder[S, E]) OnAny() *TargetBuilder[S, E] { return w.OnMatch(Any[E]()) }

// TargetBuilder selects where a rule leads.
type TargetBuilder[S, E comparable] struct {
	b    *Builder[S, E]
	from S
	via  func(E) bool
}

// TransitionTo completes the rule with a fixed target state.
func (t *TargetBuilder[S, E]) TransitionTo(state S) *GuardBuilder[S, E] {
	return t.add(func(S, E) S { return state }, false, Is(state))
}

// TransitionWith completes the rule with a target computed from the current state and event.
// Actions registered on the returned builder run whatever state is selected.
func (t *TargetBuilder[S, E]) TransitionWith(selector func(S, E) S) *GuardBuilder[S, E] {
	return t.add(selector, false, Any[S]())
}

// Stay completes the rule as an internal transition: the state is kept and only
// bindings scoped to (from, from, event) run.
func (t *TargetBuilder[S, E]) Stay() *GuardBuilder[S, E] {
	return t.add(nil, true, Is(t.from))
}

func (t *TargetBuilder[S, E]) add(target func(S, E) S, internal bool, to func(S) bool) *GuardBuilder[S, E] {
	index := t.b.addTransition(Transition[S, E]{
		From:     Is(t.from),
		Via:      t.via,
		Target:   target,
		Internal: internal,
	})

	return &GuardBuilder[S, E]{
		ActionBuilder: &ActionBuilder[S, E]{b: t.b, from: Is(t.from), to: to, via: t.via},
		index:         index,
	}
}

// GuardBuilder optionally guards the rule just added and binds actions to it.
type GuardBuilder[S, E comparable] struct {
	*ActionBuilder[S, E]
	index int
}

// GuardedBy sets the guard of the rule. A false guard lets matching continue with the next rule.
func (gb *GuardBuilder[S, E]) GuardedBy(guard Guard[S, E]) *ActionBuilder[S, E] {
	gb.b.transitions[gb.index].Guard = guard
	gb.b.def = nil

	return gb.ActionBuilder
}

// FromBuilder selects the target states of an action binding.
type FromBuilder[S, E comparable] struct {
	b    *Builder[S, E]
	from func(S) bool
}

func (f *FromBuilder[S, E]) To(state S) *ViaBuilder[S, E] { return f.ToMatch(Is(state)) }

func (f *FromBuilder[S, E]) ToMatch(filter func(S) bool) *ViaBuilder[S, E] {
	return &ViaBuilder[S, E]{b: f.b, from: f.from, to: filter}
}

func (f *FromBuilder[S, E]) ToAny() *ViaBuilder[S, E] { return f.ToMatch(Any[S]()) }

// ToBuilder selects the source states of an action binding.
type ToBuilder[S, E comparable] struct {
	b  *Builder[S, E]
	to func(S) bool
}

func (t *ToBuilder[S, E]) From(state S) *ViaBuilder[S, E] { return t.FromMatch(Is(state)) }

func (t *ToBuilder[S, E]) FromMatch(filter func(S) bool) *ViaBuilder[S, E] {
	return &ViaBuilder[S, E]{b: t.b, from: filter, to: t.to}
}

func (t *ToBuilder[S, E]) FromAny() *ViaBuilder[S, E] { return t.FromMatch(Any[S]()) }

// ViaBuilder selects the events of an action binding.
type ViaBuilder[S, E comparable] struct {
	b    *Builder[S, E]
	from func(S) bool
	to   func(S) bool
}

func (v *ViaBuilder[S, E]) Via(event E) *ActionBuilder[S, E] { return v.ViaMatch(Is(event)) }

func (v *ViaBuilder[S, E]) ViaTypeOf(sample E) *ActionBuilder[S, E] { return v.ViaMatch(TypeOf(sample)) }

func (v *ViaBuilder[S, E]) ViaMatch(filter func(E) bool) *ActionBuilder[S, E] {
	return &ActionBuilder[S, E]{b: v.b, from: v.from, to: v.to, via: filter}
}

func (v *ViaBuilder[S, E]) ViaAny() *ActionBuilder[S, E] { return v.ViaMatch(Any[E]()) }

// ActionBuilder registers actions for the (from, to, event) criteria collected so far.
type ActionBuilder[S, E comparable] struct {
	b    *Builder[S, E]
	from func(S) bool
	to   func(S) bool
	via  func(E) bool
}

// Execute registers action in the NORMAL tier.
func (a *ActionBuilder[S, E]) Execute(action Action[S, E]) *ActionBuilder[S, E] {
	return a.bind(action, TierNormal)
}

// ExecuteFirst registers action in the FIRST tier.
func (a *ActionBuilder[S, E]) ExecuteFirst(action Action[S, E]) *ActionBuilder[S, E] {
	return a.bind(action, TierFirst)
}

// ExecuteLast registers action in the LAST tier.
func (a *ActionBuilder[S, E]) ExecuteLast(action Action[S, E]) *ActionBuilder[S, E] {
	return a.bind(action, TierLast)
}

func (a *ActionBuilder[S, E]) bind(action Action[S, E], tier Tier) *ActionBuilder[S, E] {
	a.b.addBinding(ActionBinding[S, E]{
		From:   a.from,
		To:     a.to,
		Via:    a.via,
		Action: action,
		Tier:   tier,
	})

	return a
}
