// Package storetest keeps test suites against catalog.Store.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorctl/internal/catalog"
)

// SampleCategory returns a stored category with two slides.
func SampleCategory(id, name string, created time.Time) catalog.StoredCategory {
	return catalog.StoredCategory{
		ID:   id,
		Name: name,
		Slides: []catalog.Slide{
			{ImageURL: "img/1.png", Answer: "Paris", CensorBoxes: []catalog.CensorBox{{X: 10, Y: 20, Width: 30, Height: 5}}},
			{ImageURL: "img/2.png", Answer: "Rome"},
		},
		CreatedAt:    created,
		ThumbnailURL: "img/1.png",
		SizeInBytes:  128,
	}
}

// TestStore runs the category and contestant suites against st.
func TestStore(t *testing.T, st catalog.Store) {
	t.Run("categories", func(t *testing.T) { testCategories(t, st) })
	t.Run("contestants", func(t *testing.T) { testContestants(t, st) })
}

func testCategories(t *testing.T, st catalog.Store) {
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	refs, err := st.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, refs)

	second := SampleCategory("cat-b", "Rivers", t0.Add(time.Minute))
	first := SampleCategory("cat-a", "Capitals", t0)
	require.NoError(t, st.AddCategory(ctx, second))
	require.NoError(t, st.AddCategory(ctx, first))

	got, err := st.GetCategory(ctx, "cat-a")
	require.NoError(t, err)
	assert.Equal(t, first.Name, got.Name)
	assert.Equal(t, first.Slides, got.Slides)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt), "CreatedAt: want %v, got %v", first.CreatedAt, got.CreatedAt)
	assert.Equal(t, first.SizeInBytes, got.SizeInBytes)

	refs, err = st.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "cat-a", refs[0].ID, "refs ordered by creation time")
	assert.Equal(t, 2, refs[0].SlideCount)
	assert.Equal(t, "cat-b", refs[1].ID)

	require.NoError(t, st.DeleteCategory(ctx, "cat-a"))
	_, err = st.GetCategory(ctx, "cat-a")
	assert.True(t, errors.Is(err, catalog.ErrNotFound), "GetCategory after delete: %v", err)
	err = st.DeleteCategory(ctx, "cat-a")
	assert.True(t, errors.Is(err, catalog.ErrNotFound), "second DeleteCategory: %v", err)

	require.NoError(t, st.DeleteAllCategories(ctx))
	refs, err = st.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func testContestants(t *testing.T, st catalog.Store) {
	ctx := context.Background()
	alice := catalog.Contestant{
		ID:         "c-1",
		Name:       "Alice",
		Category:   catalog.Category{Name: "Capitals", Slides: []catalog.Slide{{ImageURL: "a.png", Answer: "Oslo"}}},
		CategoryID: "cat-a",
		Wins:       2,
	}
	bob := catalog.Contestant{ID: "c-2", Name: "Bob", Category: catalog.Category{Name: "Rivers"}, Eliminated: true}

	require.NoError(t, st.AddContestant(ctx, bob))
	require.NoError(t, st.AddContestant(ctx, alice))

	got, err := st.GetContestant(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	all, err := st.ListContestants(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name)
	assert.True(t, all[1].Eliminated)
	assert.Len(t, catalog.ContestantsUsing(all, "cat-a"), 1)

	require.NoError(t, st.DeleteContestant(ctx, "c-1"))
	_, err = st.GetContestant(ctx, "c-1")
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
	assert.True(t, errors.Is(st.DeleteContestant(ctx, "c-1"), catalog.ErrNotFound))
}
