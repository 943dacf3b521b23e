package ui

import (
	"floorctl/internal/catalog"
	"floorctl/internal/catalog/importer"
)

// CategoriesLoadedMsg carries a fresh category list from the store.
type CategoriesLoadedMsg struct {
	Categories []catalog.CategoryRef
	Err        error
}

// FilesParsedMsg is sent when the import view finished reading its files.
type FilesParsedMsg struct {
	Files []importer.File
	Err   error
}

// navDoneMsg ends an in-flight navigation. Hook messages posted while it ran
// are delivered in order afterwards.
type navDoneMsg struct {
	Op     string
	Err    error
	Posted []any
}

// viewEnteredMsg is posted by a view's OnEnter hook.
type viewEnteredMsg struct {
	ID string
}

// viewResultMsg is posted by a view's OnResult hook.
type viewResultMsg struct {
	ID     string
	Result any
}

// wizardCompleteMsg is posted when a return found no bookmark.
type wizardCompleteMsg struct {
	Result any
}

// ImportedResult is returned to the category list when the import wizard
// finishes.
type ImportedResult struct {
	Names []string
}

// DeletedResult is returned to the category list by the delete confirmation.
type DeletedResult struct {
	ID   string
	Name string
}

// ContestantAddedResult is returned to the view that opened the contestant
// form.
type ContestantAddedResult struct {
	Name     string
	Category string
}

// ShowContestantCreateMsg opens the contestant form from the category list.
type ShowContestantCreateMsg struct{}

// ShowDeleteAllMsg opens the delete-all confirmation overlay.
type ShowDeleteAllMsg struct{}

// DeleteAllMsg is sent when the operator confirms deleting every category.
type DeleteAllMsg struct{}

// DeleteAllDoneMsg reports the outcome of DeleteAllMsg.
type DeleteAllDoneMsg struct {
	Err error
}

// DismissModalMsg closes the top overlay.
type DismissModalMsg struct{}

// RefreshMsg reloads the category list.
type RefreshMsg struct{}
