package commands

import (
	"context"
	"fmt"
	"sync"

	"floorctl/internal/catalog"
	"floorctl/internal/command"
)

// CategorySource yields the ID of a category created by an earlier command.
type CategorySource interface {
	CategoryID() (string, error)
}

// ExistingCategory is a CategorySource for a category already in the store.
type ExistingCategory string

// CategoryID implements CategorySource.
func (id ExistingCategory) CategoryID() (string, error) {
	return string(id), nil
}

// AddContestant stores a contestant owning the category created by dep. It
// must run after dep in the same group; if dep never executed, Execute fails
// with command.ErrNotExecuted and the store is not touched.
type AddContestant struct {
	store catalog.Store
	data  catalog.Contestant
	dep   CategorySource

	mu           sync.Mutex
	contestantID string
}

var _ command.Command = (*AddContestant)(nil)

// NewAddContestant creates the command. data.ID and data.CategoryID are set
// at execute time.
func NewAddContestant(store catalog.Store, data catalog.Contestant, dep CategorySource) *AddContestant {
	return &AddContestant{store: store, data: data, dep: dep}
}

// Execute implements command.Command.
func (c *AddContestant) Execute(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.contestantID != "" {
		return nil
	}
	categoryID, err := c.dep.CategoryID()
	if err != nil {
		return fmt.Errorf("%s: %w", c.describe(), err)
	}
	rec := c.data
	rec.ID = newID()
	rec.CategoryID = categoryID
	if err := c.store.AddContestant(ctx, rec); err != nil {
		return fmt.Errorf("%s: %w", c.describe(), err)
	}
	c.contestantID = rec.ID
	return nil
}

// Undo implements command.Command.
func (c *AddContestant) Undo(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.contestantID == "" {
		return nil
	}
	if err := c.store.DeleteContestant(ctx, c.contestantID); err != nil {
		return fmt.Errorf("delete contestant %q: %w", c.data.Name, err)
	}
	c.contestantID = ""
	return nil
}

// ContestantID returns the ID generated by Execute, or an error wrapping
// command.ErrNotExecuted.
func (c *AddContestant) ContestantID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.contestantID == "" {
		return "", command.NotExecuted(c.describe())
	}
	return c.contestantID, nil
}

// Describe implements command.Describer.
func (c *AddContestant) Describe() string {
	return c.describe()
}

func (c *AddContestant) describe() string {
	return fmt.Sprintf("Add contestant %q", c.data.Name)
}

// DeleteContestant removes a contestant, keeping a snapshot for undo.
type DeleteContestant struct {
	store catalog.Store
	id    string

	mu       sync.Mutex
	snapshot *catalog.Contestant
}

var _ command.Command = (*DeleteContestant)(nil)

// NewDeleteContestant creates the command for contestant id.
func NewDeleteContestant(store catalog.Store, id string) *DeleteContestant {
	return &DeleteContestant{store: store, id: id}
}

// Execute implements command.Command.
func (c *DeleteContestant) Execute(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		return nil
	}
	snap, err := c.store.GetContestant(ctx, c.id)
	if err != nil {
		return fmt.Errorf("snapshot contestant %s: %w", c.id, err)
	}
	if err := c.store.DeleteContestant(ctx, c.id); err != nil {
		return fmt.Errorf("delete contestant %s: %w", c.id, err)
	}
	c.snapshot = &snap
	return nil
}

// Undo implements command.Command.
func (c *DeleteContestant) Undo(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return nil
	}
	if err := c.store.AddContestant(ctx, *c.snapshot); err != nil {
		return fmt.Errorf("restore contestant %s: %w", c.id, err)
	}
	c.snapshot = nil
	return nil
}

// Describe implements command.Describer.
func (c *DeleteContestant) Describe() string {
	return "Delete contestant " + c.id
}
