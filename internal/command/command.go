// Package command defines the reversible unit of work that view stack
// transitions execute and undo.
//
// A Command is bound to the transition into a view: the stack executes it when
// the view is committed and undoes it when the view is cancelled. Both calls
// must be idempotent:
//   - Execute after a prior successful Execute is a no-op.
//   - Undo without an outstanding successful Execute is a no-op.
//
// Commands are executed one at a time, in order, so a later command in a group
// may read results produced by an earlier one.
package command

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotExecuted is returned by result accessors queried before Execute has
// completed, and by commands whose dependency was never executed.
var ErrNotExecuted = errors.New("command not executed")

// Command is a reversible unit of work.
type Command interface {
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
}

// Describer is implemented by commands that carry a human-readable label.
type Describer interface {
	Describe() string
}

// Describe returns a diagnostic label for c.
func Describe(c Command) string {
	if c == nil {
		return "<nil>"
	}
	if d, ok := c.(Describer); ok {
		return d.Describe()
	}
	return fmt.Sprintf("%T", c)
}

// NotExecuted wraps ErrNotExecuted with what was being asked for.
func NotExecuted(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotExecuted)
}
