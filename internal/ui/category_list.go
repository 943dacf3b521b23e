package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/importer"
	"floorctl/internal/ui/textutil"
)

// categoryItem implements list.Item for a CategoryRef.
type categoryItem struct {
	catalog.CategoryRef
}

func (c categoryItem) FilterValue() string { return c.Name }
func (c categoryItem) Title() string {
	return fmt.Sprintf("%s  %d slides, %s",
		textutil.PadRight(c.Name, 28), c.SlideCount, importer.FormatSize(c.SizeInBytes))
}
func (c categoryItem) Description() string { return "" }

// CategoryListScreen is the console's root view.
type CategoryListScreen struct {
	console    *Console
	list       list.Model
	Categories []catalog.CategoryRef
	Status     string
	Err        error
}

var _ Screen = (*CategoryListScreen)(nil)

// NewCategoryListScreen creates an empty list; Entered loads it.
func NewCategoryListScreen(c *Console) *CategoryListScreen {
	l := list.New(nil, NewCompactListDelegate(), 0, 0)
	l.Title = "Categories"
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return &CategoryListScreen{console: c, list: l}
}

// Selected returns the highlighted category.
func (s *CategoryListScreen) Selected() (catalog.CategoryRef, bool) {
	i := s.list.Index()
	if i < 0 || i >= len(s.Categories) {
		return catalog.CategoryRef{}, false
	}
	return s.Categories[i], true
}

// Init implements Screen.
func (s *CategoryListScreen) Init() tea.Cmd {
	return s.console.loadCategories()
}

// Entered reloads the list whenever the list becomes the top view again.
func (s *CategoryListScreen) Entered() tea.Cmd {
	return s.console.loadCategories()
}

// Result shows what the finished child view did.
func (s *CategoryListScreen) Result(r any) tea.Cmd {
	switch r := r.(type) {
	case ImportedResult:
		s.Status = fmt.Sprintf("Imported %d %s: %s", len(r.Names), plural(len(r.Names), "category", "categories"), strings.Join(r.Names, ", "))
	case DeletedResult:
		s.Status = fmt.Sprintf("Deleted %q", r.Name)
	case ContestantAddedResult:
		s.Status = fmt.Sprintf("Added %s to %q", r.Name, r.Category)
	}
	return nil
}

// Update implements Screen.
func (s *CategoryListScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.list.SetSize(msg.Width, msg.Height-6)
		return nil
	case CategoriesLoadedMsg:
		s.Err = msg.Err
		if msg.Err == nil {
			s.Categories = msg.Categories
			items := make([]list.Item, len(msg.Categories))
			for i, ref := range msg.Categories {
				items[i] = categoryItem{ref}
			}
			s.list.SetItems(items)
		}
		return nil
	case tea.KeyMsg:
		switch msg.String() {
		case "i":
			return s.console.openImport()
		case "c":
			return s.console.openContestantCreate("")
		case "D":
			return func() tea.Msg { return ShowDeleteAllMsg{} }
		case "r":
			return s.console.loadCategories()
		case "d":
			if ref, ok := s.Selected(); ok {
				return s.console.confirmDelete(ref)
			}
			return nil
		case "enter":
			if ref, ok := s.Selected(); ok {
				return s.console.openDetail(ref)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return cmd
}

// View implements Screen.
func (s *CategoryListScreen) View() string {
	if s.list.Width() == 0 {
		s.list.SetSize(80, 20)
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("Categories (%d)", len(s.Categories))) + "\n")
	b.WriteString(Styles.Hint.Render("i: import  c: add contestant  enter: open  d: delete  D: delete all  q: quit  [SPC] more") + "\n\n")
	if len(s.Categories) == 0 {
		b.WriteString(Styles.Empty.Render("No categories yet. Press i to import one.") + "\n")
	} else {
		b.WriteString(s.list.View() + "\n")
	}
	if s.Status != "" {
		b.WriteString("\n" + Styles.Status.Render(s.Status))
	}
	if s.Err != nil {
		b.WriteString("\n" + Styles.Error.Render("Error: "+s.Err.Error()))
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
