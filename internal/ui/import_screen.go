package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"floorctl/internal/catalog/importer"
)

const importViewID = "import"

// ImportScreen asks for category files and starts the preview chain.
type ImportScreen struct {
	console *Console
	input   textinput.Model
	Err     error
}

var _ Screen = (*ImportScreen)(nil)

// NewImportScreen creates the file prompt.
func NewImportScreen(c *Console) *ImportScreen {
	ti := textinput.New()
	ti.Placeholder = "capitals.json, rivers.yaml"
	ti.Prompt = "Files: "
	ti.CharLimit = 1024
	ti.Width = 60
	ti.Focus()
	return &ImportScreen{console: c, input: ti}
}

// Typing reports that keys belong to the text input.
func (s *ImportScreen) Typing() bool { return true }

// Init implements Screen.
func (s *ImportScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Entered implements enterer.
func (s *ImportScreen) Entered() tea.Cmd {
	return textinput.Blink
}

// Update implements Screen.
func (s *ImportScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FilesParsedMsg:
		if msg.Err != nil {
			s.Err = msg.Err
			return nil
		}
		s.Err = nil
		return s.console.push(NewPreviewView(s.console, msg.Files, 0, nil))
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s.console.pop()
		case "enter":
			paths := importer.SplitPaths(s.input.Value())
			if len(paths) == 0 {
				return nil
			}
			return s.console.parseFiles(paths)
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// View implements Screen.
func (s *ImportScreen) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Import categories") + "\n\n")
	b.WriteString(s.input.View() + "\n")
	if s.Err != nil {
		b.WriteString("\n" + Styles.Error.Render("Error: "+s.Err.Error()) + "\n")
	}
	b.WriteString("\n" + Styles.Hint.Render("JSON or YAML, separated by commas  Enter: preview  Esc: back"))
	return Styles.Box.Render(b.String())
}
