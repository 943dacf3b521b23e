package command

import "context"

// Bookmark marks a return point inside a command group. Executing or undoing
// it has no effect; the view stack finds it by type when returning.
//
// Bookmark is a value type, so separate bookmarks never alias each other.
type Bookmark struct {
	Label string
}

// DefaultBookmark is the pre-allocated marker for the common single-return case.
var DefaultBookmark = Bookmark{Label: "bookmark"}

// Ensure Bookmark implements Command.
var _ Command = Bookmark{}

// Execute implements Command.
func (Bookmark) Execute(context.Context) error { return nil }

// Undo implements Command.
func (Bookmark) Undo(context.Context) error { return nil }

// Describe implements Describer.
func (b Bookmark) Describe() string {
	if b.Label == "" {
		return "bookmark"
	}
	return "bookmark: " + b.Label
}

// IsBookmark reports whether c is a bookmark marker. Only the value form
// counts; a *Bookmark is an ordinary command.
func IsBookmark(c Command) bool {
	_, ok := c.(Bookmark)
	return ok
}

// ContainsBookmark reports whether any command in group is a bookmark.
func ContainsBookmark(group []Command) bool {
	for _, c := range group {
		if IsBookmark(c) {
			return true
		}
	}
	return false
}
