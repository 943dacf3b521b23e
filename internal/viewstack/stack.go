// Package viewstack implements the navigation engine shared by the console's
// modal wizards.
//
// A Stack holds two parallel sequences: the views, root first, and one command
// group per non-root view holding the commands executed when that view was
// pushed. len(Commands()) == len(Views())-1 always holds.
//
// Navigation operations are serialized: a call arriving while another is in
// flight waits its turn. Command failures are logged and recorded on the
// operation's span but never returned; a misbehaving command cannot wedge the
// stack. Only precondition violations (ErrRootView, ErrDuplicateView) and
// context errors from waiting are returned.
package viewstack

import (
	"errors"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"floorctl/internal/command"
)

// TracerName is the instrumentation scope used for navigation spans.
const TracerName = "floorctl/viewstack"

var (
	// ErrRootView is returned when popping the root view.
	ErrRootView = errors.New("viewstack: cannot pop the root view")
	// ErrDuplicateView is returned when pushing a view whose ID is already on the stack.
	ErrDuplicateView = errors.New("viewstack: view id already on stack")
)

// Stack is the view/command stack engine.
type Stack struct {
	// nav serializes navigation operations in arrival order.
	nav *semaphore.Weighted

	mu        sync.RWMutex
	views     []View
	commands  [][]command.Command
	completed bool

	logger     *zap.Logger
	tracer     oteltrace.Tracer
	onComplete func(result any)
}

// Option configures a Stack.
type Option func(*Stack)

// WithLogger sets the logger used for navigation and swallowed failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Stack) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used for navigation spans.
func WithTracer(t oteltrace.Tracer) Option {
	return func(s *Stack) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithOnComplete sets the callback fired when CommitAndReturn finds no bookmark.
func WithOnComplete(fn func(result any)) Option {
	return func(s *Stack) { s.onComplete = fn }
}

// New creates a stack holding only root.
func New(root View, opts ...Option) *Stack {
	s := &Stack{
		nav:      semaphore.NewWeighted(1),
		views:    []View{root},
		commands: [][]command.Command{},
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("viewstack")
	return s
}

// CurrentViewID returns the ID of the top view.
func (s *Stack) CurrentViewID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[len(s.views)-1].ID
}

// Depth returns the number of views, root included.
func (s *Stack) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// CurrentView returns a copy of the top view.
func (s *Stack) CurrentView() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[len(s.views)-1]
}

// Views returns a copy of the view sequence, root first.
func (s *Stack) Views() []View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]View, len(s.views))
	copy(out, s.views)
	return out
}

// Commands returns a copy of the command groups, oldest first.
func (s *Stack) Commands() [][]command.Command {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]command.Command, len(s.commands))
	for i, g := range s.commands {
		out[i] = slices.Clone(g)
	}
	return out
}

// Completed reports whether a CommitAndReturn found no bookmark and signalled
// completion. Reset clears it.
func (s *Stack) Completed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed
}

// UpdateCurrentView replaces the top view's State with fn(State). No hooks fire
// and the command stack is untouched. fn runs under the stack's lock and must
// not call back into the Stack.
func (s *Stack) UpdateCurrentView(fn func(state any) any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	top := &s.views[len(s.views)-1]
	top.State = fn(top.State)
}

// updateView is UpdateCurrentView for a view identified by id, wherever it sits
// in the stack. It reports false when no such view exists.
func (s *Stack) updateView(id string, fn func(state any) any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.views[i].State = fn(s.views[i].State)
	return true
}

// viewState returns the State of the view with the given id.
func (s *Stack) viewState(id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.views[i].State, true
}

// indexOf must be called with s.mu held.
func (s *Stack) indexOf(id string) int {
	for i := len(s.views) - 1; i >= 0; i-- {
		if s.views[i].ID == id {
			return i
		}
	}
	return -1
}
