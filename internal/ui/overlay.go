package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal drawn over the console outside the view stack. Overlay
// actions are not undoable and never touch the command stack.
type Overlay struct {
	Screen  Screen
	Dismiss string // Key that dismisses (e.g. "esc")
}

// IsDismissKey reports whether key should dismiss this overlay.
func (o *Overlay) IsDismissKey(key string) bool {
	return o.Dismiss != "" && key == o.Dismiss
}

// OverlayStack manages a stack of overlays (topmost receives input first).
type OverlayStack struct {
	Stack []Overlay
}

// Push adds an overlay to the top of the stack.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop removes and returns the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of overlays.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// UpdateTop routes msg to the top overlay. The bool is false when there is no
// overlay to receive it.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	top, ok := s.Peek()
	if !ok {
		return nil, false
	}
	if key, isKey := msg.(tea.KeyMsg); isKey && top.IsDismissKey(key.String()) {
		s.Pop()
		return nil, true
	}
	return top.Screen.Update(msg), true
}
