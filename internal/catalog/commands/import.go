package commands

import (
	"context"
	"errors"
	"fmt"

	"floorctl/internal/catalog"
	"floorctl/internal/command"
)

// ImportResult identifies what an Import created.
type ImportResult struct {
	CategoryID   string
	ContestantID string
}

// NewImport returns a command that stores category and, when contestantName
// is not empty, a contestant owning it. Both are written or neither is; undo
// deletes whatever was written.
func NewImport(store catalog.Store, category catalog.StoredCategory, contestantName string) *command.Func[ImportResult] {
	label := "Import category " + category.Name
	if contestantName != "" {
		label += fmt.Sprintf(" (contestant: %s)", contestantName)
	}

	exec := func(ctx context.Context) (ImportResult, error) {
		addCat := NewAddCategory(store, category)
		if err := addCat.Execute(ctx); err != nil {
			return ImportResult{}, err
		}
		res := ImportResult{CategoryID: addCat.MustCategoryID()}
		if contestantName == "" {
			return res, nil
		}
		addContestant := NewAddContestant(store, catalog.Contestant{
			Name:     contestantName,
			Category: catalog.Category{Name: category.Name, Slides: category.Slides},
		}, addCat)
		if err := addContestant.Execute(ctx); err != nil {
			if undoErr := addCat.Undo(ctx); undoErr != nil {
				err = errors.Join(err, undoErr)
			}
			return ImportResult{}, err
		}
		res.ContestantID, _ = addContestant.ContestantID()
		return res, nil
	}

	undo := func(ctx context.Context, res ImportResult) error {
		if res.ContestantID != "" {
			if err := store.DeleteContestant(ctx, res.ContestantID); err != nil && !errors.Is(err, catalog.ErrNotFound) {
				return err
			}
		}
		if err := store.DeleteCategory(ctx, res.CategoryID); err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return err
		}
		return nil
	}

	return command.NewFunc(label, exec, undo)
}
