package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/commands"
	"floorctl/internal/catalog/importer"
	"floorctl/internal/command"
	"floorctl/internal/viewstack"
)

const rootViewID = "categories"

// ShowImportMsg opens the import wizard.
type ShowImportMsg struct{}

// Options configures a Console.
type Options struct {
	Logger *zap.Logger
	Tracer oteltrace.Tracer
}

// Console is the operator console. It hosts one view stack whose root is the
// category list; wizards and confirmations are pushed over it.
//
// Navigation runs inside tea.Cmd goroutines. View hooks never touch screens
// directly: they post messages that are delivered on the Update goroutine
// once the operation finishes.
type Console struct {
	ctx    context.Context
	store  catalog.Store
	stack  *viewstack.Stack
	logger *zap.Logger

	list       *CategoryListScreen
	Overlays   OverlayStack
	KeyHandler *KeyHandler

	spinner spinner.Model
	busy    bool
	busyOp  string
	err     error
	width   int
	height  int

	mu     sync.Mutex
	posted []any
}

// NewConsole creates the console over store.
func NewConsole(ctx context.Context, store catalog.Store, opts Options) *Console {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status

	c := &Console{
		ctx:     ctx,
		store:   store,
		logger:  logger.Named("console"),
		spinner: s,
	}
	c.list = NewCategoryListScreen(c)
	c.stack = viewstack.New(c.view(rootViewID, "Categories", c.list),
		viewstack.WithLogger(logger),
		viewstack.WithTracer(opts.Tracer),
		viewstack.WithOnComplete(func(result any) { c.post(wizardCompleteMsg{Result: result}) }),
	)

	reg := NewKeybindRegistry()
	reg.Bind("ctrl+c", tea.Quit, "Quit")
	reg.Bind("SPC q", tea.Quit, "Quit")
	reg.BindForMode("q", tea.Quit, "Quit", []AppMode{ModeCatalog})
	reg.BindForMode("SPC i", func() tea.Msg { return ShowImportMsg{} }, "Import", []AppMode{ModeCatalog})
	reg.BindForMode("SPC c", func() tea.Msg { return ShowContestantCreateMsg{} }, "Add contestant", []AppMode{ModeCatalog})
	reg.BindForMode("SPC r", func() tea.Msg { return RefreshMsg{} }, "Refresh", []AppMode{ModeCatalog})
	reg.BindForMode("SPC D", func() tea.Msg { return ShowDeleteAllMsg{} }, "Delete all", []AppMode{ModeCatalog})
	c.KeyHandler = NewKeyHandler(reg)
	return c
}

// Stack exposes the navigation engine.
func (c *Console) Stack() *viewstack.Stack {
	return c.stack
}

// List returns the root screen.
func (c *Console) List() *CategoryListScreen {
	return c.list
}

// Busy reports whether a navigation is in flight.
func (c *Console) Busy() bool {
	return c.busy
}

// Err returns the last navigation error not claimed by a screen.
func (c *Console) Err() error {
	return c.err
}

// Mode returns the key binding mode for the current depth.
func (c *Console) Mode() AppMode {
	return modeForDepth(c.stack.Depth())
}

// view wraps a screen as a stack view whose hooks post to the console.
func (c *Console) view(id, title string, s Screen) viewstack.View {
	return viewstack.View{
		ID:       id,
		Title:    title,
		Content:  s,
		OnEnter:  func() { c.post(viewEnteredMsg{ID: id}) },
		OnResult: func(r any) { c.post(viewResultMsg{ID: id, Result: r}) },
	}
}

func (c *Console) post(msg any) {
	c.mu.Lock()
	c.posted = append(c.posted, msg)
	c.mu.Unlock()
}

func (c *Console) drain() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.posted
	c.posted = nil
	return out
}

// navigate runs fn on the stack in a command goroutine. Calls made while an
// operation is in flight are dropped; the engine would queue them, but a
// keypress aimed at a screen that is about to disappear should not land.
func (c *Console) navigate(op string, fn func(ctx context.Context) error) tea.Cmd {
	if c.busy {
		return nil
	}
	c.busy = true
	c.busyOp = op
	c.err = nil
	return tea.Batch(c.spinner.Tick, func() tea.Msg {
		err := fn(c.ctx)
		return navDoneMsg{Op: op, Err: err, Posted: c.drain()}
	})
}

func (c *Console) push(v viewstack.View) tea.Cmd {
	return c.navigate("push", func(ctx context.Context) error {
		return c.stack.Push(ctx, v)
	})
}

func (c *Console) commitAndPush(v viewstack.View, cmds ...command.Command) tea.Cmd {
	return c.navigate("commit", func(ctx context.Context) error {
		return c.stack.CommitAndPush(ctx, v, cmds...)
	})
}

func (c *Console) commitAndReturn(opts viewstack.ReturnOptions) tea.Cmd {
	return c.navigate("return", func(ctx context.Context) error {
		return c.stack.CommitAndReturn(ctx, opts)
	})
}

func (c *Console) pop() tea.Cmd {
	return c.navigate("pop", c.stack.Pop)
}

func (c *Console) popWithResult(r any) tea.Cmd {
	return c.navigate("pop", func(ctx context.Context) error {
		return c.stack.PopWithResult(ctx, r)
	})
}

// openImport starts the import wizard. The bookmark committed with the import
// view is where the last preview returns to.
func (c *Console) openImport() tea.Cmd {
	v := c.view(importViewID, "Import", NewImportScreen(c))
	return c.commitAndPush(v, command.DefaultBookmark)
}

// openContestantCreate pushes the contestant form over the current view,
// bookmarked so that creating returns here. categoryID may be empty.
func (c *Console) openContestantCreate(categoryID string) tea.Cmd {
	v := c.view(contestantViewID, "Add Contestant", NewContestantCreateScreen(c, categoryID))
	return c.commitAndPush(v, command.DefaultBookmark)
}

func (c *Console) openDetail(ref catalog.CategoryRef) tea.Cmd {
	return c.push(c.view(DetailViewID(ref.ID), ref.Name, NewCategoryDetailScreen(c, ref)))
}

// confirmDelete pushes a confirmation. The deletion itself runs outside the
// stack's command groups so that leaving the confirmation never restores it.
func (c *Console) confirmDelete(ref catalog.CategoryRef) tea.Cmd {
	modal := NewConfirmModal("Delete category?", fmt.Sprintf("Category: %s", ref.Name), nil).
		WithDetails(categoryDetails(ref))
	modal.OnCancel = func() tea.Msg { return popRequestMsg{} }
	modal.OnConfirm = func() tea.Msg { return deleteRequestMsg{ref: ref} }
	return c.push(c.view("delete-"+ref.ID, "Delete", modal))
}

// popRequestMsg and deleteRequestMsg let modal callbacks start navigation on
// the Update goroutine.
type popRequestMsg struct{}

type deleteRequestMsg struct {
	ref catalog.CategoryRef
}

func (c *Console) deleteCategory(ref catalog.CategoryRef) tea.Cmd {
	return c.navigate("delete", func(ctx context.Context) error {
		del := commands.NewDeleteCategory(c.store, ref.ID)
		if err := del.Execute(ctx); err != nil {
			return err
		}
		return c.stack.PopWithResult(ctx, DeletedResult{ID: ref.ID, Name: ref.Name})
	})
}

func (c *Console) loadCategories() tea.Cmd {
	return func() tea.Msg {
		refs, err := c.store.ListCategories(c.ctx)
		return CategoriesLoadedMsg{Categories: refs, Err: err}
	}
}

func (c *Console) parseFiles(paths []string) tea.Cmd {
	return func() tea.Msg {
		files, err := importer.LoadAll(c.ctx, paths)
		return FilesParsedMsg{Files: files, Err: err}
	}
}

func (c *Console) deleteAll() tea.Cmd {
	return func() tea.Msg {
		return DeleteAllDoneMsg{Err: c.store.DeleteAllCategories(c.ctx)}
	}
}

// top returns the screen of the current view.
func (c *Console) top() Screen {
	s, _ := c.stack.CurrentView().Content.(Screen)
	if s == nil {
		return c.list
	}
	return s
}

// screenFor finds the screen of the view with id, if it is still stacked.
func (c *Console) screenFor(id string) (Screen, bool) {
	for _, v := range c.stack.Views() {
		if v.ID == id {
			s, ok := v.Content.(Screen)
			return s, ok
		}
	}
	return nil, false
}

// Init starts the console.
func (c *Console) Init() tea.Cmd {
	return c.list.Init()
}

// Update handles one message.
func (c *Console) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width, c.height = msg.Width, msg.Height
		var cmds []tea.Cmd
		for _, v := range c.stack.Views() {
			if s, ok := v.Content.(Screen); ok {
				cmds = append(cmds, s.Update(msg))
			}
		}
		return tea.Batch(cmds...)

	case spinner.TickMsg:
		if !c.busy {
			return nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd

	case navDoneMsg:
		c.busy = false
		c.busyOp = ""
		var cmds []tea.Cmd
		if msg.Err != nil {
			c.logger.Warn("navigation failed", zap.String("op", msg.Op), zap.Error(msg.Err))
			if f, ok := c.top().(interface{ Failed(error) }); ok {
				f.Failed(msg.Err)
			} else {
				c.err = msg.Err
			}
		}
		for _, p := range msg.Posted {
			cmds = append(cmds, c.Update(p))
		}
		return tea.Batch(cmds...)

	case viewEnteredMsg:
		if s, ok := c.screenFor(msg.ID); ok {
			if e, ok := s.(enterer); ok {
				return e.Entered()
			}
		}
		return nil

	case viewResultMsg:
		if s, ok := c.screenFor(msg.ID); ok {
			if r, ok := s.(resulter); ok {
				return r.Result(msg.Result)
			}
		}
		return nil

	case wizardCompleteMsg:
		c.logger.Info("wizard completed without bookmark")
		// The root's OnEnter reloads the list once the reset lands.
		cmd := c.navigate("reset", c.stack.Reset)
		return tea.Batch(cmd, c.list.Result(msg.Result))

	case CategoriesLoadedMsg:
		return c.list.Update(msg)

	case ShowImportMsg:
		return c.openImport()

	case ShowContestantCreateMsg:
		return c.openContestantCreate("")

	case popRequestMsg:
		return c.pop()

	case deleteRequestMsg:
		return c.deleteCategory(msg.ref)

	case RefreshMsg:
		return c.loadCategories()

	case ShowDeleteAllMsg:
		c.Overlays.Push(Overlay{
			Screen:  NewDeleteAllConfirmModal(len(c.list.Categories)),
			Dismiss: "esc",
		})
		return nil

	case DismissModalMsg:
		c.Overlays.Pop()
		return nil

	case DeleteAllMsg:
		c.Overlays.Pop()
		return c.deleteAll()

	case DeleteAllDoneMsg:
		if msg.Err != nil {
			c.err = msg.Err
		} else {
			c.list.Status = "Deleted all categories"
		}
		return c.loadCategories()

	case tea.KeyMsg:
		return c.handleKey(msg)
	}

	return c.top().Update(msg)
}

func (c *Console) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if c.busy {
		return nil
	}
	if cmd, ok := c.Overlays.UpdateTop(msg); ok {
		return cmd
	}

	top := c.top()
	typing := false
	if t, ok := top.(interface{ Typing() bool }); ok {
		typing = t.Typing()
	}
	if consumed, cmd := c.KeyHandler.Handle(msg, c.Mode(), typing); consumed {
		return cmd
	}
	return top.Update(msg)
}

// View renders the breadcrumb, the top screen and any overlay.
func (c *Console) View() string {
	views := c.stack.Views()
	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}

	var b strings.Builder
	b.WriteString(Styles.Muted.Render(strings.Join(titles, " › ")) + "\n\n")

	if o, ok := c.Overlays.Peek(); ok {
		body := o.Screen.View()
		if c.width > 0 && c.height > 0 {
			body = lipgloss.Place(c.width, c.height-2, lipgloss.Center, lipgloss.Center, body)
		}
		b.WriteString(body)
		return b.String()
	}

	b.WriteString(c.top().View())
	if c.busy {
		b.WriteString("\n\n" + c.spinner.View() + " " + Styles.Muted.Render("Working ("+c.busyOp+")"))
	}
	if c.err != nil {
		b.WriteString("\n\n" + Styles.Error.Render("Error: "+c.err.Error()))
	}
	if c.KeyHandler.LeaderWaiting {
		b.WriteString("\n" + RenderKeybindHelp(c.KeyHandler, c.Mode()))
	}
	return b.String()
}

// Ensure consoleModel satisfies tea.Model.
var _ tea.Model = (*consoleModel)(nil)

// consoleModel adapts Console to tea.Model.
type consoleModel struct {
	*Console
}

// Init implements tea.Model.
func (m *consoleModel) Init() tea.Cmd {
	return m.Console.Init()
}

// Update implements tea.Model.
func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.Console.Update(msg)
}

// View implements tea.Model.
func (m *consoleModel) View() string {
	return m.Console.View()
}

// AsTeaModel returns a tea.Model for use with tea.NewProgram.
func (c *Console) AsTeaModel() tea.Model {
	return &consoleModel{Console: c}
}
