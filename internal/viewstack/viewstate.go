package viewstack

import (
	"maps"
	"slices"
)

// Binding ties a typed value to the State slot of the view that was on top
// when the binding was created. Edits survive while other views are pushed
// over that view and are visible again after they pop.
//
// Reads and writes never fire hooks or touch the command stack.
type Binding[T any] struct {
	stack   *Stack
	viewID  string
	key     string
	whole   bool
	initial T
}

// Keyed binds the value stored under key. The view's State holds a
// map[string]any so several keyed bindings can share one view.
func Keyed[T any](s *Stack, key string, initial T) Binding[T] {
	return Binding[T]{stack: s, viewID: s.CurrentViewID(), key: key, initial: initial}
}

// Whole binds the view's entire State slot. Do not mix with Keyed on the same
// view.
func Whole[T any](s *Stack, initial T) Binding[T] {
	return Binding[T]{stack: s, viewID: s.CurrentViewID(), whole: true, initial: initial}
}

// ViewID returns the ID of the bound view.
func (b Binding[T]) ViewID() string {
	return b.viewID
}

// Get returns the stored value, or the initial value when nothing has been
// stored or the view has left the stack.
func (b Binding[T]) Get() T {
	st, ok := b.stack.viewState(b.viewID)
	if !ok {
		return b.initial
	}
	return b.extract(st)
}

// Set stores v. It reports false if the bound view is no longer on the stack.
func (b Binding[T]) Set(v T) bool {
	return b.Update(func(T) T { return v })
}

// Update stores fn(current). It reports false if the bound view is no longer
// on the stack.
func (b Binding[T]) Update(fn func(T) T) bool {
	return b.stack.updateView(b.viewID, func(st any) any {
		next := fn(b.extract(st))
		if b.whole {
			return next
		}
		m, _ := st.(map[string]any)
		out := make(map[string]any, len(m)+1)
		maps.Copy(out, m)
		out[b.key] = next
		return out
	})
}

func (b Binding[T]) extract(st any) T {
	if b.whole {
		if v, ok := st.(T); ok {
			return v
		}
		return b.initial
	}
	m, ok := st.(map[string]any)
	if !ok {
		return b.initial
	}
	if v, ok := m[b.key].(T); ok {
		return v
	}
	return b.initial
}

// SetBinding is a keyed binding holding a set, stored as a slice in insertion
// order.
type SetBinding[T comparable] struct {
	b Binding[[]T]
}

// KeyedSet binds a set stored under key.
func KeyedSet[T comparable](s *Stack, key string) SetBinding[T] {
	return SetBinding[T]{b: Keyed[[]T](s, key, nil)}
}

// Values returns the members in insertion order.
func (s SetBinding[T]) Values() []T {
	return slices.Clone(s.b.Get())
}

// Len returns the number of members.
func (s SetBinding[T]) Len() int {
	return len(s.b.Get())
}

// Has reports whether v is a member.
func (s SetBinding[T]) Has(v T) bool {
	return slices.Contains(s.b.Get(), v)
}

// Add inserts v if absent.
func (s SetBinding[T]) Add(v T) {
	s.b.Update(func(cur []T) []T {
		if slices.Contains(cur, v) {
			return cur
		}
		return append(slices.Clone(cur), v)
	})
}

// Remove deletes v if present.
func (s SetBinding[T]) Remove(v T) {
	s.b.Update(func(cur []T) []T {
		return slices.DeleteFunc(slices.Clone(cur), func(x T) bool { return x == v })
	})
}

// Toggle adds v if absent and removes it otherwise. It returns whether v is a
// member afterwards.
func (s SetBinding[T]) Toggle(v T) bool {
	if s.Has(v) {
		s.Remove(v)
		return false
	}
	s.Add(v)
	return true
}

// Clear removes every member.
func (s SetBinding[T]) Clear() {
	s.b.Set(nil)
}
