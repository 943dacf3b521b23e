package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/importer"
)

// ConfirmModal is a generic confirmation screen. Enter or y confirms; Esc
// cancels. It works both as an overlay and as a view on the stack.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string // Optional warning details
	OnConfirm tea.Cmd
	// OnCancel defaults to dismissing the overlay.
	OnCancel tea.Cmd
	// Err is shown under the label when the confirmed action failed.
	Err error

	boxStyle   lipgloss.Style
	titleStyle lipgloss.Style
}

var _ Screen = (*ConfirmModal)(nil)

// NewConfirmModal creates a destructive-action confirmation.
func NewConfirmModal(title, label string, onConfirm tea.Cmd) *ConfirmModal {
	return &ConfirmModal{
		Title:      title,
		Label:      label,
		OnConfirm:  onConfirm,
		OnCancel:   func() tea.Msg { return DismissModalMsg{} },
		boxStyle:   Styles.BoxDanger,
		titleStyle: Styles.TitleWarning,
	}
}

// WithDetails adds warning details to the modal.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewDeleteAllConfirmModal asks before wiping every category.
func NewDeleteAllConfirmModal(count int) *ConfirmModal {
	return NewConfirmModal(
		"Delete all categories?",
		fmt.Sprintf("%d categories will be removed", count),
		func() tea.Msg { return DeleteAllMsg{} },
	).WithDetails("Contestants keep their own copy of a category.\nThis cannot be undone.")
}

// categoryDetails summarizes a category for confirmation screens.
func categoryDetails(ref catalog.CategoryRef) string {
	return fmt.Sprintf("%d slides, %s", ref.SlideCount, importer.FormatSize(ref.SizeInBytes))
}

// Failed shows err; the modal stays open so the operator can retry.
func (m *ConfirmModal) Failed(err error) {
	m.Err = err
}

// Init implements Screen.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements Screen.
func (m *ConfirmModal) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "n":
			return m.OnCancel
		case "enter", "y":
			return m.OnConfirm
		}
	}
	return nil
}

// View implements Screen.
func (m *ConfirmModal) View() string {
	content := m.titleStyle.Render(m.Title) + "\n\n"
	content += Styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Details.Render(m.Details)
	}
	if m.Err != nil {
		content += "\n\n" + Styles.Error.Render("Error: "+m.Err.Error())
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return m.boxStyle.Render(content)
}
