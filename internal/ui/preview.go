package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/commands"
	"floorctl/internal/catalog/importer"
	"floorctl/internal/command"
	"floorctl/internal/ui/textutil"
	"floorctl/internal/viewstack"
)

const previewAnswerRows = 5

// PreviewScreen shows one file of an import and commits it on Enter.
type PreviewScreen struct {
	console  *Console
	files    []importer.File
	index    int
	imported []string // names committed by earlier previews

	name       textinput.Model
	contestant textinput.Model
	focus      int

	// Edits live in the view's state slot so they outlast this screen value.
	bound           bool
	nameState       viewstack.Binding[string]
	contestantState viewstack.Binding[string]
}

var _ Screen = (*PreviewScreen)(nil)

// PreviewViewID names the view for files[index].
func PreviewViewID(index int) string {
	return fmt.Sprintf("preview-%d", index)
}

// NewPreviewView builds "Preview N of M" for files[index]. imported holds the
// names committed by the previews before it. Enter commits the file and
// pushes the next preview, or returns to the bookmark after the last one.
func NewPreviewView(c *Console, files []importer.File, index int, imported []string) viewstack.View {
	f := files[index]

	name := textinput.New()
	name.Prompt = "Name:       "
	name.CharLimit = 80
	name.SetValue(f.Category.Name)
	name.Focus()

	contestant := textinput.New()
	contestant.Prompt = "Contestant: "
	contestant.Placeholder = "optional"
	contestant.CharLimit = 80

	s := &PreviewScreen{
		console:    c,
		files:      files,
		index:      index,
		imported:   imported,
		name:       name,
		contestant: contestant,
	}
	return c.view(PreviewViewID(index), s.title(), s)
}

func (s *PreviewScreen) title() string {
	return fmt.Sprintf("Preview %d of %d", s.index+1, len(s.files))
}

func (s *PreviewScreen) last() bool {
	return s.index == len(s.files)-1
}

// Typing reports that keys belong to the text inputs.
func (s *PreviewScreen) Typing() bool { return true }

// Init implements Screen.
func (s *PreviewScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Entered binds the inputs to the view's state on first entry and restores
// them on every later one.
func (s *PreviewScreen) Entered() tea.Cmd {
	if !s.bound {
		s.nameState = viewstack.Keyed(s.console.stack, "name", s.name.Value())
		s.contestantState = viewstack.Keyed(s.console.stack, "contestant", "")
		s.bound = true
	}
	s.name.SetValue(s.nameState.Get())
	s.contestant.SetValue(s.contestantState.Get())
	return textinput.Blink
}

// Update implements Screen.
func (s *PreviewScreen) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return s.console.pop()
		case "enter":
			return s.commit()
		case "tab", "shift+tab", "up", "down":
			s.toggleFocus()
			return nil
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.name, cmd = s.name.Update(msg)
	} else {
		s.contestant, cmd = s.contestant.Update(msg)
	}
	if s.bound {
		s.nameState.Set(s.name.Value())
		s.contestantState.Set(s.contestant.Value())
	}
	return cmd
}

func (s *PreviewScreen) toggleFocus() {
	if s.focus == 0 {
		s.focus = 1
		s.name.Blur()
		s.contestant.Focus()
		return
	}
	s.focus = 0
	s.contestant.Blur()
	s.name.Focus()
}

// commit builds this step's commands. Previews never write to the store
// themselves; the stack executes the commands and undoes them on back.
func (s *PreviewScreen) commit() tea.Cmd {
	f := s.files[s.index]
	stored := importer.ToStored(f.Category, strings.TrimSpace(s.name.Value()))

	add := commands.NewAddCategory(s.console.store, stored)
	cmds := []command.Command{add}
	if who := strings.TrimSpace(s.contestant.Value()); who != "" {
		cmds = append(cmds, commands.NewAddContestant(s.console.store, catalog.Contestant{
			Name:     who,
			Category: catalog.Category{Name: stored.Name, Slides: stored.Slides},
		}, add))
	}

	names := append(slices.Clone(s.imported), stored.Name)
	if s.last() {
		return s.console.commitAndReturn(viewstack.ReturnOptions{
			Commands: cmds,
			Result:   ImportedResult{Names: names},
		})
	}
	return s.console.commitAndPush(NewPreviewView(s.console, s.files, s.index+1, names), cmds...)
}

// View implements Screen.
func (s *PreviewScreen) View() string {
	f := s.files[s.index]

	var b strings.Builder
	b.WriteString(Styles.Title.Render(s.title()) + "\n")
	b.WriteString(Styles.Muted.Render(textutil.Truncate(f.Path, 70)) + "\n\n")
	b.WriteString(fmt.Sprintf("%d slides, %s\n", len(f.Category.Slides), importer.FormatSize(f.Size)))
	for i, slide := range f.Category.Slides {
		if i == previewAnswerRows {
			b.WriteString(Styles.Muted.Render(fmt.Sprintf("  … %d more", len(f.Category.Slides)-i)) + "\n")
			break
		}
		b.WriteString("  " + textutil.Truncate(slide.Answer, 60) + "\n")
	}
	b.WriteString("\n" + s.name.View() + "\n" + s.contestant.View() + "\n\n")

	action := "Enter: next"
	if s.last() {
		action = "Enter: import all"
	}
	b.WriteString(Styles.Hint.Render(action + "  Tab: switch field  Esc: back"))
	return Styles.Box.Render(b.String())
}
