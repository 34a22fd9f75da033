package fsm

import "github.com/enetx/g"

// Values is implemented by *Machine and *Context; it gives Key access to the
// per-instance value store.
type Values interface {
	store() *g.MapSafe[g.String, any]
}

// Key identifies a typed value stored on a machine instance. Values outlive
// single evaluations and are shared by every Context of the instance.
type Key[T any] struct {
	name g.String
}

// NewKey returns a key named name.
func NewKey[T any](name string) Key[T] { return Key[T]{name: g.String(name)} }

// Name returns the key's name.
func (k Key[T]) Name() string { return k.name.Std() }

// Get returns the value stored under k, if any.
func (k Key[T]) Get(v Values) (T, bool) {
	return cast[T](v.store().Get(k.name))
}

// Set stores value under k.
func (k Key[T]) Set(v Values, value T) {
	v.store().Set(k.name, value)
}

// Remove deletes the value stored under k and returns it.
func (k Key[T]) Remove(v Values) (T, bool) {
	store := v.store()
	opt := store.Get(k.name)
	store.Delete(k.name)

	return cast[T](opt)
}

func cast[T any](opt g.Option[any]) (T, bool) {
	if opt.IsNone() {
		var zero T
		return zero, false
	}

	value, ok := opt.Some().(T)

	return value, ok
}
