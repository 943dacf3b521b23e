// Package commands holds the persistence-backed commands the console commits
// through the view stack.
package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"floorctl/internal/catalog"
	"floorctl/internal/command"
)

// newID generates store IDs; tests may replace it.
var newID = uuid.NewString

// AddCategory stores a new category. The ID is generated on Execute; undo
// deletes it.
type AddCategory struct {
	store catalog.Store
	data  catalog.StoredCategory

	mu         sync.Mutex
	categoryID string
}

var _ command.Command = (*AddCategory)(nil)

// NewAddCategory creates the command. data.ID is ignored; a zero CreatedAt is
// set at execute time.
func NewAddCategory(store catalog.Store, data catalog.StoredCategory) *AddCategory {
	return &AddCategory{store: store, data: data}
}

// Execute implements command.Command.
func (c *AddCategory) Execute(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.categoryID != "" {
		return nil
	}
	rec := c.data
	rec.ID = newID()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := c.store.AddCategory(ctx, rec); err != nil {
		return fmt.Errorf("add category %q: %w", rec.Name, err)
	}
	c.categoryID = rec.ID
	return nil
}

// Undo implements command.Command.
func (c *AddCategory) Undo(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.categoryID == "" {
		return nil
	}
	if err := c.store.DeleteCategory(ctx, c.categoryID); err != nil {
		return fmt.Errorf("delete category %q: %w", c.data.Name, err)
	}
	c.categoryID = ""
	return nil
}

// CategoryID returns the ID generated by Execute, or an error wrapping
// command.ErrNotExecuted.
func (c *AddCategory) CategoryID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.categoryID == "" {
		return "", command.NotExecuted(c.describe())
	}
	return c.categoryID, nil
}

// MustCategoryID is CategoryID that panics before Execute.
func (c *AddCategory) MustCategoryID() string {
	id, err := c.CategoryID()
	if err != nil {
		panic(err)
	}
	return id
}

// Describe implements command.Describer.
func (c *AddCategory) Describe() string {
	return c.describe()
}

func (c *AddCategory) describe() string {
	return fmt.Sprintf("Add category %q", c.data.Name)
}

// DeleteCategory removes a category, keeping a snapshot so undo can restore it.
type DeleteCategory struct {
	store catalog.Store
	id    string

	mu       sync.Mutex
	snapshot *catalog.StoredCategory
}

var _ command.Command = (*DeleteCategory)(nil)

// NewDeleteCategory creates the command for category id.
func NewDeleteCategory(store catalog.Store, id string) *DeleteCategory {
	return &DeleteCategory{store: store, id: id}
}

// Execute implements command.Command.
func (c *DeleteCategory) Execute(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		return nil
	}
	snap, err := c.store.GetCategory(ctx, c.id)
	if err != nil {
		return fmt.Errorf("snapshot category %s: %w", c.id, err)
	}
	if err := c.store.DeleteCategory(ctx, c.id); err != nil {
		return fmt.Errorf("delete category %s: %w", c.id, err)
	}
	c.snapshot = &snap
	return nil
}

// Undo implements command.Command.
func (c *DeleteCategory) Undo(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return nil
	}
	if err := c.store.AddCategory(ctx, *c.snapshot); err != nil {
		return fmt.Errorf("restore category %s: %w", c.id, err)
	}
	c.snapshot = nil
	return nil
}

// Deleted returns the removed category, or an error wrapping
// command.ErrNotExecuted.
func (c *DeleteCategory) Deleted() (catalog.StoredCategory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return catalog.StoredCategory{}, command.NotExecuted(c.Describe())
	}
	return *c.snapshot, nil
}

// Describe implements command.Describer.
func (c *DeleteCategory) Describe() string {
	return "Delete category " + c.id
}
