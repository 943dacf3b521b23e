package viewstack

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"floorctl/internal/command"
)

// ReturnOptions configures CommitAndReturn.
type ReturnOptions struct {
	// Commands are the final step's side effects, executed before the jump.
	Commands []command.Command
	// Result is delivered to the bookmarked view's OnResult, or to the
	// completion callback when no bookmark exists.
	Result any
}

// Push appends v without executing any commands. The current view's OnExit
// fires, then v's OnEnter.
func (s *Stack) Push(ctx context.Context, v View) error {
	_, span, done, err := s.begin(ctx, "push", v.ID)
	if err != nil {
		return err
	}
	defer done()

	prev, err := s.checkNew(v)
	if err != nil {
		return s.fail(span, err)
	}
	callHook(prev.OnExit)

	s.mu.Lock()
	s.views = append(s.views, v)
	s.commands = append(s.commands, []command.Command{})
	depth := len(s.views)
	s.mu.Unlock()

	s.navigated(span, "push", v.ID, depth)
	callHook(v.OnEnter)
	return nil
}

// CommitAndPush executes cmds in order, leaves the current view through
// OnCommit, OnLeave and OnExit, then appends v with cmds as its group and
// fires v's OnEnter. Command failures are logged and do not stop the commit.
func (s *Stack) CommitAndPush(ctx context.Context, v View, cmds ...command.Command) error {
	ctx, span, done, err := s.begin(ctx, "commit", v.ID)
	if err != nil {
		return err
	}
	defer done()
	span.SetAttributes(attribute.Int("viewstack.commands", len(cmds)))

	prev, err := s.checkNew(v)
	if err != nil {
		return s.fail(span, err)
	}

	group := append([]command.Command{}, cmds...)
	s.execute(ctx, span, "commit", group)
	s.leave(ctx, "commit", prev)

	s.mu.Lock()
	s.views = append(s.views, v)
	s.commands = append(s.commands, group)
	depth := len(s.views)
	s.mu.Unlock()

	s.navigated(span, "commit", v.ID, depth)
	callHook(v.OnEnter)
	return nil
}

// Pop undoes the top view's command group in reverse order, removes the view,
// and fires OnExit on it and OnEnter on the new top view. Popping the root
// returns ErrRootView.
func (s *Stack) Pop(ctx context.Context) error {
	return s.pop(ctx, nil, false)
}

// PopWithResult is Pop followed by delivering result to the new top view's
// OnResult.
func (s *Stack) PopWithResult(ctx context.Context, result any) error {
	return s.pop(ctx, result, true)
}

func (s *Stack) pop(ctx context.Context, result any, hasResult bool) error {
	ctx, span, done, err := s.begin(ctx, "pop", "")
	if err != nil {
		return err
	}
	defer done()

	s.mu.RLock()
	n := len(s.views)
	var group []command.Command
	if n > 1 {
		group = s.commands[n-2]
	}
	s.mu.RUnlock()
	if n <= 1 {
		return s.fail(span, ErrRootView)
	}

	s.undo(ctx, span, "pop", group)

	s.mu.Lock()
	removed := s.views[n-1]
	s.views[n-1] = View{}
	s.views = s.views[:n-1]
	s.commands[n-2] = nil
	s.commands = s.commands[:n-2]
	top := s.views[n-2]
	s.mu.Unlock()

	s.navigated(span, "pop", removed.ID, n-1)
	callHook(removed.OnExit)
	callHook(top.OnEnter)
	if hasResult && top.OnResult != nil {
		top.OnResult(result)
	}
	return nil
}

// CommitAndReturn executes opts.Commands, then jumps back to the most recent
// bookmark: the view entered by the bookmarked transition and everything above
// it are dropped along with their groups, without undo, and the bookmark is
// consumed. The current view leaves through OnCommit, OnLeave and OnExit and
// the new top view gets OnEnter (and OnResult when opts.Result is non-nil).
//
// With no bookmark on the stack the views stay where they are, the stack is
// marked completed and the completion callback receives opts.Result.
func (s *Stack) CommitAndReturn(ctx context.Context, opts ReturnOptions) error {
	ctx, span, done, err := s.begin(ctx, "return", "")
	if err != nil {
		return err
	}
	defer done()
	span.SetAttributes(attribute.Int("viewstack.commands", len(opts.Commands)))

	s.execute(ctx, span, "return", opts.Commands)

	s.mu.RLock()
	mark := -1
	for i := len(s.commands) - 1; i >= 0; i-- {
		if command.ContainsBookmark(s.commands[i]) {
			mark = i
			break
		}
	}
	leaving := s.views[len(s.views)-1]
	s.mu.RUnlock()

	s.leave(ctx, "return", leaving)

	if mark < 0 {
		s.mu.Lock()
		s.completed = true
		depth := len(s.views)
		s.mu.Unlock()
		span.SetAttributes(attribute.Bool("viewstack.completed", true))
		s.logger.Debug("flow complete", zap.String("view", leaving.ID), zap.Int("depth", depth))
		if s.onComplete != nil {
			s.onComplete(opts.Result)
		}
		return nil
	}

	s.mu.Lock()
	clear(s.views[mark+1:])
	s.views = s.views[:mark+1]
	clear(s.commands[mark:])
	s.commands = s.commands[:mark]
	top := s.views[mark]
	s.mu.Unlock()

	s.navigated(span, "return", top.ID, mark+1)
	callHook(top.OnEnter)
	if opts.Result != nil && top.OnResult != nil {
		top.OnResult(opts.Result)
	}
	return nil
}

// Replace swaps the top view for v in place. No hooks fire and the command
// stack is untouched.
func (s *Stack) Replace(ctx context.Context, v View) error {
	_, span, done, err := s.begin(ctx, "replace", v.ID)
	if err != nil {
		return err
	}
	defer done()

	s.mu.Lock()
	defer s.mu.Unlock()
	last := len(s.views) - 1
	if i := s.indexOf(v.ID); i >= 0 && i != last {
		return s.fail(span, fmt.Errorf("%w: %q", ErrDuplicateView, v.ID))
	}
	s.views[last] = v
	return nil
}

// Reset drops every view above the root and every command group without
// undo, and clears the completed flag. When the root was not already on top,
// the dropped top view gets OnExit and the root gets OnEnter; views in between
// were never active and fire nothing.
func (s *Stack) Reset(ctx context.Context) error {
	_, span, done, err := s.begin(ctx, "reset", "")
	if err != nil {
		return err
	}
	defer done()

	s.mu.Lock()
	top := s.views[len(s.views)-1]
	moved := len(s.views) > 1
	clear(s.views[1:])
	s.views = s.views[:1]
	clear(s.commands)
	s.commands = s.commands[:0]
	s.completed = false
	root := s.views[0]
	s.mu.Unlock()

	if !moved {
		return nil
	}
	s.navigated(span, "reset", top.ID, 1)
	callHook(top.OnExit)
	callHook(root.OnEnter)
	return nil
}

// begin waits for the navigation slot and opens the operation's span. The
// returned func releases both.
func (s *Stack) begin(ctx context.Context, op, viewID string) (context.Context, oteltrace.Span, func(), error) {
	if err := s.nav.Acquire(ctx, 1); err != nil {
		return ctx, nil, nil, err
	}
	ctx, span := s.tracer.Start(ctx, "viewstack."+op)
	if viewID != "" {
		span.SetAttributes(attribute.String("viewstack.view", viewID))
	}
	return ctx, span, func() {
		span.End()
		s.nav.Release(1)
	}, nil
}

// checkNew validates that v can be pushed and returns the current top view.
func (s *Stack) checkNew(v View) (View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.indexOf(v.ID) >= 0 {
		return View{}, fmt.Errorf("%w: %q", ErrDuplicateView, v.ID)
	}
	return s.views[len(s.views)-1], nil
}

func (s *Stack) execute(ctx context.Context, span oteltrace.Span, op string, group []command.Command) {
	for _, c := range group {
		if err := c.Execute(ctx); err != nil {
			s.commandFailed(span, op, "execute", c, err)
		}
	}
}

func (s *Stack) undo(ctx context.Context, span oteltrace.Span, op string, group []command.Command) {
	for i := len(group) - 1; i >= 0; i-- {
		if err := group[i].Undo(ctx); err != nil {
			s.commandFailed(span, op, "undo", group[i], err)
		}
	}
}

// leave runs a view's forward-exit hooks: OnCommit, OnLeave, OnExit.
func (s *Stack) leave(ctx context.Context, op string, v View) {
	if v.OnCommit != nil {
		if err := v.OnCommit(ctx); err != nil {
			s.hookFailed(op, "commit", v.ID, err)
		}
	}
	if v.OnLeave != nil {
		if err := v.OnLeave(ctx); err != nil {
			s.hookFailed(op, "leave", v.ID, err)
		}
	}
	callHook(v.OnExit)
}

func (s *Stack) commandFailed(span oteltrace.Span, op, phase string, c command.Command, err error) {
	desc := command.Describe(c)
	s.logger.Warn("command failed",
		zap.String("op", op),
		zap.String("phase", phase),
		zap.String("command", desc),
		zap.Error(err),
	)
	span.RecordError(err, oteltrace.WithAttributes(
		attribute.String("viewstack.command", desc),
		attribute.String("viewstack.phase", phase),
	))
}

func (s *Stack) hookFailed(op, hook, viewID string, err error) {
	s.logger.Warn("hook failed",
		zap.String("op", op),
		zap.String("hook", hook),
		zap.String("view", viewID),
		zap.Error(err),
	)
}

func (s *Stack) navigated(span oteltrace.Span, op, viewID string, depth int) {
	span.SetAttributes(attribute.Int("viewstack.depth", depth))
	s.logger.Debug("navigate", zap.String("op", op), zap.String("view", viewID), zap.Int("depth", depth))
}

func (s *Stack) fail(span oteltrace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func callHook(fn func()) {
	if fn != nil {
		fn()
	}
}
