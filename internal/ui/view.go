package ui

import tea "github.com/charmbracelet/bubbletea"

// Screen is the unit of composition; it follows Bubble Tea's Init/Update/View.
// Every view on the console's stack carries a Screen as its Content. Screens
// are pointers and update in place.
type Screen interface {
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	View() string
}

// enterer is implemented by screens that react to becoming the top view.
type enterer interface {
	Entered() tea.Cmd
}

// resulter is implemented by screens that accept a result from a popped child.
type resulter interface {
	Result(any) tea.Cmd
}
