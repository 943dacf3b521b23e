package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/commands"
	"floorctl/internal/command"
	"floorctl/internal/ui/textutil"
	"floorctl/internal/viewstack"
)

const contestantViewID = "contestant-new"

// contestantDraft is the form as kept in the view's state slot.
type contestantDraft struct {
	Name       string
	CategoryID string
}

// contestantCategoriesMsg carries the categories offered by the form.
type contestantCategoriesMsg struct {
	Categories []catalog.CategoryRef
	Err        error
}

// contestantCategoryMsg carries the full category picked on submit.
type contestantCategoryMsg struct {
	Name     string
	Category catalog.StoredCategory
	Err      error
}

// ContestantCreateScreen adds a contestant playing an existing category.
// Ctrl+O imports a new category on top of the form; the import returns here.
type ContestantCreateScreen struct {
	console    *Console
	preset     string
	name       textinput.Model
	Categories []catalog.CategoryRef
	cursor     int
	selectName string // pick this category once the list reloads
	Err        error

	bound bool
	draft viewstack.Binding[contestantDraft]
}

var _ Screen = (*ContestantCreateScreen)(nil)

// NewContestantCreateScreen creates the form. categoryID preselects a
// category and may be empty.
func NewContestantCreateScreen(c *Console, categoryID string) *ContestantCreateScreen {
	ti := textinput.New()
	ti.Prompt = "Name: "
	ti.Placeholder = "contestant name"
	ti.CharLimit = 80
	ti.Focus()
	return &ContestantCreateScreen{console: c, preset: categoryID, name: ti}
}

// Typing reports that keys belong to the name input.
func (s *ContestantCreateScreen) Typing() bool { return true }

// Init implements Screen.
func (s *ContestantCreateScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Entered restores the draft and reloads the categories, which may have
// grown through an import.
func (s *ContestantCreateScreen) Entered() tea.Cmd {
	if !s.bound {
		s.draft = viewstack.Whole(s.console.stack, contestantDraft{CategoryID: s.preset})
		s.bound = true
	}
	s.name.SetValue(s.draft.Get().Name)

	c := s.console
	return tea.Batch(textinput.Blink, func() tea.Msg {
		refs, err := c.store.ListCategories(c.ctx)
		return contestantCategoriesMsg{Categories: refs, Err: err}
	})
}

// Result selects a category imported from this form.
func (s *ContestantCreateScreen) Result(r any) tea.Cmd {
	if imp, ok := r.(ImportedResult); ok && len(imp.Names) > 0 {
		s.selectName = imp.Names[len(imp.Names)-1]
	}
	return nil
}

// Selected returns the highlighted category.
func (s *ContestantCreateScreen) Selected() (catalog.CategoryRef, bool) {
	if s.cursor < 0 || s.cursor >= len(s.Categories) {
		return catalog.CategoryRef{}, false
	}
	return s.Categories[s.cursor], true
}

// Update implements Screen.
func (s *ContestantCreateScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case contestantCategoriesMsg:
		s.Err = msg.Err
		s.Categories = msg.Categories
		s.cursor = 0
		want := s.draft.Get().CategoryID
		for i, ref := range s.Categories {
			if (s.selectName != "" && ref.Name == s.selectName) || (s.selectName == "" && ref.ID == want) {
				s.cursor = i
				break
			}
		}
		s.selectName = ""
		s.save()
		return nil

	case contestantCategoryMsg:
		if msg.Err != nil {
			s.Err = msg.Err
			return nil
		}
		cat := msg.Category
		add := commands.NewAddContestant(s.console.store, catalog.Contestant{
			Name:     msg.Name,
			Category: catalog.Category{Name: cat.Name, Slides: cat.Slides},
		}, commands.ExistingCategory(cat.ID))
		return s.console.commitAndReturn(viewstack.ReturnOptions{
			Commands: []command.Command{add},
			Result:   ContestantAddedResult{Name: msg.Name, Category: cat.Name},
		})

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s.console.pop()
		case "enter":
			return s.submit()
		case "ctrl+o":
			return s.console.openImport()
		case "up":
			if s.cursor > 0 {
				s.cursor--
				s.save()
			}
			return nil
		case "down":
			if s.cursor < len(s.Categories)-1 {
				s.cursor++
				s.save()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	s.name, cmd = s.name.Update(msg)
	s.save()
	return cmd
}

func (s *ContestantCreateScreen) save() {
	if !s.bound {
		return
	}
	d := contestantDraft{Name: s.name.Value()}
	if ref, ok := s.Selected(); ok {
		d.CategoryID = ref.ID
	} else {
		d.CategoryID = s.draft.Get().CategoryID
	}
	s.draft.Set(d)
}

// submit validates the form and fetches the picked category; the contestant
// is written by the command committed on return.
func (s *ContestantCreateScreen) submit() tea.Cmd {
	name := strings.TrimSpace(s.name.Value())
	ref, ok := s.Selected()
	switch {
	case name == "":
		s.Err = errors.New("enter a contestant name")
		return nil
	case !ok:
		s.Err = errors.New("no category to play, press ctrl+o to import one")
		return nil
	}
	s.Err = nil

	c := s.console
	return func() tea.Msg {
		cat, err := c.store.GetCategory(c.ctx, ref.ID)
		return contestantCategoryMsg{Name: name, Category: cat, Err: err}
	}
}

// View implements Screen.
func (s *ContestantCreateScreen) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Add contestant") + "\n\n")
	b.WriteString(s.name.View() + "\n\n")
	b.WriteString(Styles.Label.Render("Category:") + "\n")
	if len(s.Categories) == 0 {
		b.WriteString(Styles.Empty.Render("No categories yet. Ctrl+O imports one.") + "\n")
	}
	for i, ref := range s.Categories {
		line := fmt.Sprintf("%s (%d slides)", textutil.Truncate(ref.Name, 40), ref.SlideCount)
		if i == s.cursor {
			b.WriteString(Styles.Selected.Render("› "+line) + "\n")
		} else {
			b.WriteString(Styles.Normal.Render("  "+line) + "\n")
		}
	}
	if s.Err != nil {
		b.WriteString("\n" + Styles.Error.Render("Error: "+s.Err.Error()) + "\n")
	}
	b.WriteString("\n" + Styles.Hint.Render("↑/↓: category  Enter: create  Ctrl+O: import  Esc: back"))
	return Styles.Box.Render(b.String())
}
