package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/boltstore"
	"floorctl/internal/command"
	"floorctl/internal/viewstack"
)

// fakeStore is an in-memory catalog.Store that counts writes.
type fakeStore struct {
	mu          sync.Mutex
	categories  map[string]catalog.StoredCategory
	contestants map[string]catalog.Contestant
	calls       map[string]int
	failOn      map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories:  map[string]catalog.StoredCategory{},
		contestants: map[string]catalog.Contestant{},
		calls:       map[string]int{},
		failOn:      map[string]error{},
	}
}

func (f *fakeStore) hit(op string) error {
	f.calls[op]++
	return f.failOn[op]
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) AddCategory(_ context.Context, c catalog.StoredCategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("AddCategory"); err != nil {
		return err
	}
	f.categories[c.ID] = c
	return nil
}

func (f *fakeStore) GetCategory(_ context.Context, id string) (catalog.StoredCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return c, catalog.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteCategory"); err != nil {
		return err
	}
	if _, ok := f.categories[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) DeleteAllCategories(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = map[string]catalog.StoredCategory{}
	return nil
}

func (f *fakeStore) ListCategories(context.Context) ([]catalog.CategoryRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var refs []catalog.CategoryRef
	for _, c := range f.categories {
		refs = append(refs, c.Ref())
	}
	return refs, nil
}

func (f *fakeStore) AddContestant(_ context.Context, c catalog.Contestant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("AddContestant"); err != nil {
		return err
	}
	f.contestants[c.ID] = c
	return nil
}

func (f *fakeStore) GetContestant(_ context.Context, id string) (catalog.Contestant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contestants[id]
	if !ok {
		return c, catalog.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) DeleteContestant(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteContestant"); err != nil {
		return err
	}
	if _, ok := f.contestants[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.contestants, id)
	return nil
}

func (f *fakeStore) ListContestants(context.Context) ([]catalog.Contestant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []catalog.Contestant
	for _, c := range f.contestants {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

// sequentialIDs makes newID deterministic for the duration of a test.
func sequentialIDs(t *testing.T) {
	t.Helper()
	orig := newID
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = orig })
}

func capitals() catalog.StoredCategory {
	return catalog.StoredCategory{Name: "Capitals", Slides: []catalog.Slide{{ImageURL: "a.png", Answer: "Oslo"}}}
}

func TestAddCategory_ExecuteIsIdempotent(t *testing.T) {
	sequentialIDs(t)
	ctx := context.Background()
	st := newFakeStore()
	cmd := NewAddCategory(st, capitals())

	for i := 0; i < 3; i++ {
		require.NoError(t, cmd.Execute(ctx))
	}

	assert.Equal(t, 1, st.count("AddCategory"))
	id, err := cmd.CategoryID()
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
	assert.False(t, st.categories["id-1"].CreatedAt.IsZero())
}

func TestAddCategory_UndoIsIdempotent(t *testing.T) {
	sequentialIDs(t)
	ctx := context.Background()
	st := newFakeStore()
	cmd := NewAddCategory(st, capitals())

	require.NoError(t, cmd.Undo(ctx))
	assert.Equal(t, 0, st.count("DeleteCategory"))

	require.NoError(t, cmd.Execute(ctx))
	require.NoError(t, cmd.Undo(ctx))
	require.NoError(t, cmd.Undo(ctx))
	assert.Equal(t, 1, st.count("DeleteCategory"))
	assert.Empty(t, st.categories)

	_, err := cmd.CategoryID()
	assert.ErrorIs(t, err, command.ErrNotExecuted)
}

func TestAddCategory_CategoryIDBeforeExecute(t *testing.T) {
	cmd := NewAddCategory(newFakeStore(), capitals())

	_, err := cmd.CategoryID()
	assert.ErrorIs(t, err, command.ErrNotExecuted)
	assert.Panics(t, func() { cmd.MustCategoryID() })
}

func TestAddCategory_FailedExecuteCanRetry(t *testing.T) {
	sequentialIDs(t)
	ctx := context.Background()
	st := newFakeStore()
	st.failOn["AddCategory"] = errors.New("disk full")
	cmd := NewAddCategory(st, capitals())

	require.Error(t, cmd.Execute(ctx))
	_, err := cmd.CategoryID()
	assert.ErrorIs(t, err, command.ErrNotExecuted)

	delete(st.failOn, "AddCategory")
	require.NoError(t, cmd.Execute(ctx))
	assert.Len(t, st.categories, 1)
}

func TestAddContestant_UsesDependencyID(t *testing.T) {
	sequentialIDs(t)
	ctx := context.Background()
	st := newFakeStore()
	addCat := NewAddCategory(st, capitals())
	addContestant := NewAddContestant(st, catalog.Contestant{Name: "Alice"}, addCat)

	require.NoError(t, addCat.Execute(ctx))
	require.NoError(t, addContestant.Execute(ctx))

	id, err := addContestant.ContestantID()
	require.NoError(t, err)
	assert.Equal(t, "id-1", st.contestants[id].CategoryID)
	assert.Equal(t, "Alice", st.contestants[id].Name)
}

func TestAddContestant_ExistingCategory(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	cmd := NewAddContestant(st, catalog.Contestant{Name: "Bob"}, ExistingCategory("cat-7"))

	require.NoError(t, cmd.Execute(ctx))
	id, err := cmd.ContestantID()
	require.NoError(t, err)
	assert.Equal(t, "cat-7", st.contestants[id].CategoryID)

	require.NoError(t, cmd.Undo(ctx))
	assert.Empty(t, st.contestants)
}

func TestAddContestant_DependencyNeverExecuted(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	addCat := NewAddCategory(st, capitals())
	addContestant := NewAddContestant(st, catalog.Contestant{Name: "Alice"}, addCat)

	err := addContestant.Execute(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, command.ErrNotExecuted)
	assert.Equal(t, 0, st.count("AddContestant"))
	assert.Empty(t, st.contestants)
}

func TestAddContestant_ExecuteIsIdempotent(t *testing.T) {
	sequentialIDs(t)
	ctx := context.Background()
	st := newFakeStore()
	addCat := NewAddCategory(st, capitals())
	addContestant := NewAddContestant(st, catalog.Contestant{Name: "Alice"}, addCat)
	require.NoError(t, addCat.Execute(ctx))

	for i := 0; i < 3; i++ {
		require.NoError(t, addContestant.Execute(ctx))
	}
	assert.Equal(t, 1, st.count("AddContestant"))

	require.NoError(t, addContestant.Undo(ctx))
	require.NoError(t, addContestant.Undo(ctx))
	assert.Equal(t, 1, st.count("DeleteContestant"))
}

func TestDeleteCategory_UndoRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	orig := capitals()
	orig.ID = "cat-1"
	st.categories["cat-1"] = orig
	cmd := NewDeleteCategory(st, "cat-1")

	_, err := cmd.Deleted()
	assert.ErrorIs(t, err, command.ErrNotExecuted)

	require.NoError(t, cmd.Execute(ctx))
	require.NoError(t, cmd.Execute(ctx))
	assert.Empty(t, st.categories)
	assert.Equal(t, 1, st.count("DeleteCategory"))
	deleted, err := cmd.Deleted()
	require.NoError(t, err)
	assert.Equal(t, "Capitals", deleted.Name)

	require.NoError(t, cmd.Undo(ctx))
	assert.Equal(t, orig, st.categories["cat-1"])
	require.NoError(t, cmd.Undo(ctx))
	assert.Equal(t, 1, st.count("AddCategory"))
}

func TestDeleteCategory_MissingCategory(t *testing.T) {
	cmd := NewDeleteCategory(newFakeStore(), "nope")
	err := cmd.Execute(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	require.NoError(t, cmd.Undo(context.Background()))
}

func TestDeleteContestant_UndoRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	st.contestants["c-1"] = catalog.Contestant{ID: "c-1", Name: "Bob", Wins: 3}
	cmd := NewDeleteContestant(st, "c-1")

	require.NoError(t, cmd.Execute(ctx))
	assert.Empty(t, st.contestants)
	require.NoError(t, cmd.Undo(ctx))
	assert.Equal(t, 3, st.contestants["c-1"].Wins)
}

func TestImport_WritesBothAndUndoes(t *testing.T) {
	sequentialIDs(t)
	ctx := context.Background()
	st := newFakeStore()
	cmd := NewImport(st, capitals(), "Dana")

	require.NoError(t, cmd.Execute(ctx))
	require.NoError(t, cmd.Execute(ctx))
	res, err := cmd.Result()
	require.NoError(t, err)
	assert.Equal(t, ImportResult{CategoryID: "id-1", ContestantID: "id-2"}, res)
	assert.Equal(t, "Import category Capitals (contestant: Dana)", cmd.Describe())

	require.NoError(t, cmd.Undo(ctx))
	assert.Empty(t, st.categories)
	assert.Empty(t, st.contestants)
}

func TestImport_ContestantFailureRollsBackCategory(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	st.failOn["AddContestant"] = errors.New("quota")
	cmd := NewImport(st, capitals(), "Dana")

	require.Error(t, cmd.Execute(ctx))
	assert.Empty(t, st.categories)
	assert.False(t, cmd.Executed())
}

func TestImport_WithoutContestant(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	cmd := NewImport(st, capitals(), "")

	require.NoError(t, cmd.Execute(ctx))
	res, err := cmd.Result()
	require.NoError(t, err)
	assert.Empty(t, res.ContestantID)
	assert.Equal(t, 0, st.count("AddContestant"))
}

// TestWizard_BoltStore walks the multi-item import flow through a real stack
// and a bbolt store: two previews commit, then the last returns to the list.
func TestWizard_BoltStore(t *testing.T) {
	ctx := context.Background()
	st, err := boltstore.Open(filepath.Join(t.TempDir(), "floor.db"))
	require.NoError(t, err)
	defer st.Close()

	s := viewstack.New(viewstack.View{ID: "list"})
	require.NoError(t, s.CommitAndPush(ctx, viewstack.View{ID: "import"}, command.DefaultBookmark))

	cat1 := NewAddCategory(st, catalog.StoredCategory{Name: "Capitals"})
	con1 := NewAddContestant(st, catalog.Contestant{Name: "Alice"}, cat1)
	require.NoError(t, s.CommitAndPush(ctx, viewstack.View{ID: "preview-2"}, cat1, con1))

	cat2 := NewAddCategory(st, catalog.StoredCategory{Name: "Rivers"})
	require.NoError(t, s.CommitAndReturn(ctx, viewstack.ReturnOptions{Commands: []command.Command{cat2}}))

	assert.Equal(t, "list", s.CurrentViewID())
	assert.Empty(t, s.Commands())
	refs, err := st.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
	contestants, err := st.ListContestants(ctx)
	require.NoError(t, err)
	require.Len(t, contestants, 1)
	assert.Equal(t, cat1.MustCategoryID(), contestants[0].CategoryID)
}

// TestWizard_BackUndoesPreviousStep checks that cancelling a preview removes
// what the previous preview committed.
func TestWizard_BackUndoesPreviousStep(t *testing.T) {
	ctx := context.Background()
	st, err := boltstore.Open(filepath.Join(t.TempDir(), "floor.db"))
	require.NoError(t, err)
	defer st.Close()

	s := viewstack.New(viewstack.View{ID: "list"})
	require.NoError(t, s.CommitAndPush(ctx, viewstack.View{ID: "import"}, command.DefaultBookmark))
	cat1 := NewAddCategory(st, catalog.StoredCategory{Name: "Capitals"})
	con1 := NewAddContestant(st, catalog.Contestant{Name: "Alice"}, cat1)
	require.NoError(t, s.CommitAndPush(ctx, viewstack.View{ID: "preview-2"}, cat1, con1))

	require.NoError(t, s.Pop(ctx))

	refs, err := st.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, refs)
	contestants, err := st.ListContestants(ctx)
	require.NoError(t, err)
	assert.Empty(t, contestants)
}
