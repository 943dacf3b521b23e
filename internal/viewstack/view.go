package viewstack

import "context"

// View is one screen in the stack. The stack never inspects Content or State;
// it only carries them and calls the hooks.
type View struct {
	ID      string
	Title   string
	Content any
	// State is the view's private slot, written only through UpdateCurrentView
	// and the Keyed/Whole/KeyedSet bindings.
	State any

	// OnEnter fires when the view becomes the top view.
	OnEnter func()
	// OnExit fires when the view stops being the top view, for any reason.
	OnExit func()
	// OnCommit fires when a forward commit leaves this view.
	OnCommit func(ctx context.Context) error
	// OnLeave fires after OnCommit whenever a commit leaves this view.
	OnLeave func(ctx context.Context) error
	// OnResult receives the result of a child view popped with one.
	OnResult func(result any)
}
