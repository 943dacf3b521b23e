package command

import (
	"context"
	"sync"
)

// Func is a Command built from closures. Execute produces a result that Undo
// later consumes, e.g. the IDs created by an import that undo must delete.
//
// Duplicate or concurrent Execute calls run exec at most once until Undo
// succeeds; after that the command can be executed again.
type Func[R any] struct {
	label string
	exec  func(ctx context.Context) (R, error)
	undo  func(ctx context.Context, result R) error

	mu       sync.Mutex
	executed bool
	result   R
}

// Ensure Func implements Command.
var _ Command = (*Func[struct{}])(nil)

// NewFunc creates a closure-backed command. undo may be nil for effects that
// cannot be reversed.
func NewFunc[R any](label string, exec func(ctx context.Context) (R, error), undo func(ctx context.Context, result R) error) *Func[R] {
	return &Func[R]{label: label, exec: exec, undo: undo}
}

// Execute implements Command.
func (f *Func[R]) Execute(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.executed {
		return nil
	}
	r, err := f.exec(ctx)
	if err != nil {
		return err
	}
	f.result = r
	f.executed = true
	return nil
}

// Undo implements Command.
func (f *Func[R]) Undo(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.executed {
		return nil
	}
	if f.undo != nil {
		if err := f.undo(ctx, f.result); err != nil {
			return err
		}
	}
	var zero R
	f.result = zero
	f.executed = false
	return nil
}

// Result returns the value produced by the last successful Execute.
func (f *Func[R]) Result() (R, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.executed {
		var zero R
		return zero, NotExecuted(f.Describe())
	}
	return f.result, nil
}

// Executed reports whether an Execute is outstanding.
func (f *Func[R]) Executed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executed
}

// Describe implements Describer.
func (f *Func[R]) Describe() string {
	if f.label == "" {
		return "func command"
	}
	return f.label
}
