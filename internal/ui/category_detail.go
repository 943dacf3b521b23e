package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/importer"
	"floorctl/internal/ui/textutil"
	"floorctl/internal/viewstack"
)

// categoryDetailLoadedMsg carries the full category for a detail screen.
type categoryDetailLoadedMsg struct {
	ID          string
	Category    catalog.StoredCategory
	Contestants []catalog.Contestant
	Err         error
}

// CategoryDetailScreen shows one category's slides and the contestants
// playing it.
type CategoryDetailScreen struct {
	console     *Console
	ref         catalog.CategoryRef
	category    *catalog.StoredCategory
	contestants []catalog.Contestant
	loading     bool
	Err         error

	cursor   int
	bound    bool
	expanded viewstack.SetBinding[int] // slide indexes showing image and censor boxes
}

var _ Screen = (*CategoryDetailScreen)(nil)

// DetailViewID names the detail view for a category.
func DetailViewID(id string) string {
	return "detail-" + id
}

// NewCategoryDetailScreen creates the screen; Entered loads it.
func NewCategoryDetailScreen(c *Console, ref catalog.CategoryRef) *CategoryDetailScreen {
	return &CategoryDetailScreen{console: c, ref: ref}
}

// Init implements Screen.
func (s *CategoryDetailScreen) Init() tea.Cmd {
	return nil
}

// Entered implements enterer.
func (s *CategoryDetailScreen) Entered() tea.Cmd {
	if !s.bound {
		s.expanded = viewstack.KeyedSet[int](s.console.stack, "expanded")
		s.bound = true
	}
	s.loading = true
	c, id := s.console, s.ref.ID
	return func() tea.Msg {
		cat, err := c.store.GetCategory(c.ctx, id)
		if err != nil {
			return categoryDetailLoadedMsg{ID: id, Err: err}
		}
		all, err := c.store.ListContestants(c.ctx)
		return categoryDetailLoadedMsg{ID: id, Category: cat, Contestants: catalog.ContestantsUsing(all, id), Err: err}
	}
}

// Result forwards a deletion of this category to the list below. Added
// contestants show up through the reload in Entered.
func (s *CategoryDetailScreen) Result(r any) tea.Cmd {
	if d, ok := r.(DeletedResult); ok && d.ID == s.ref.ID {
		return s.console.popWithResult(d)
	}
	return nil
}

// Update implements Screen.
func (s *CategoryDetailScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case categoryDetailLoadedMsg:
		if msg.ID != s.ref.ID {
			return nil
		}
		s.loading = false
		s.Err = msg.Err
		if msg.Category.ID != "" {
			cat := msg.Category
			s.category = &cat
		}
		s.contestants = msg.Contestants
		if s.category != nil && s.cursor >= len(s.category.Slides) {
			s.cursor = max(len(s.category.Slides)-1, 0)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s.console.pop()
		case "d":
			return s.console.confirmDelete(s.ref)
		case "c":
			return s.console.openContestantCreate(s.ref.ID)
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.category != nil && s.cursor < len(s.category.Slides)-1 {
				s.cursor++
			}
		case "x":
			if s.bound && s.category != nil && len(s.category.Slides) > 0 {
				s.expanded.Toggle(s.cursor)
			}
		}
	}
	return nil
}

// Expanded reports whether slide i shows its image and censor boxes.
func (s *CategoryDetailScreen) Expanded(i int) bool {
	return s.bound && s.expanded.Has(i)
}

// View implements Screen.
func (s *CategoryDetailScreen) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(s.ref.Name) + "\n")
	b.WriteString(Styles.Muted.Render(fmt.Sprintf("Added %s, %s",
		s.ref.CreatedAt.Format("2006-01-02 15:04"), importer.FormatSize(s.ref.SizeInBytes))) + "\n\n")

	switch {
	case s.Err != nil:
		b.WriteString(Styles.Error.Render("Error: "+s.Err.Error()) + "\n")
	case s.loading || s.category == nil:
		b.WriteString(Styles.Empty.Render("Loading…") + "\n")
	default:
		for i, slide := range s.category.Slides {
			marker := "  "
			if i == s.cursor {
				marker = "› "
			}
			b.WriteString(fmt.Sprintf("%s%3d. %s\n", marker, i+1, textutil.Truncate(slide.Answer, 60)))
			if s.Expanded(i) {
				b.WriteString(Styles.Muted.Render(fmt.Sprintf("        %s", textutil.Truncate(slide.ImageURL, 60))) + "\n")
				for _, box := range slide.CensorBoxes {
					b.WriteString(Styles.Muted.Render(fmt.Sprintf("        censor %.0f,%.0f %.0fx%.0f", box.X, box.Y, box.Width, box.Height)) + "\n")
				}
			}
		}
		b.WriteString("\n")
		if len(s.contestants) == 0 {
			b.WriteString(Styles.Empty.Render("No contestant plays this category.") + "\n")
		} else {
			names := make([]string, len(s.contestants))
			for i, c := range s.contestants {
				names[i] = c.Name
			}
			b.WriteString("Contestants: " + strings.Join(names, ", ") + "\n")
		}
	}
	b.WriteString("\n" + Styles.Hint.Render("↑/↓: slide  x: expand  c: add contestant  d: delete  Esc: back"))
	return b.String()
}
