package viewstack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type previewForm struct {
	ContestantName string
	CategoryName   string
}

func TestKeyed_SurvivesChildPushAndPop(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s := New(View{ID: "root"})
	require.NoError(t, s.Push(ctx, hookedView("preview-1", rec)))

	name := Keyed(s, "contestantName", "")
	assert.Equal(t, "", name.Get())
	require.True(t, name.Set("Alice"))

	require.NoError(t, s.CommitAndPush(ctx, View{ID: "preview-2"}))
	assert.Equal(t, "Alice", name.Get(), "binding reads its own view, not the new top")
	assert.Nil(t, s.CurrentView().State)

	require.NoError(t, s.Pop(ctx))
	assert.Equal(t, "Alice", name.Get())
	assert.Equal(t, "Alice", Keyed(s, "contestantName", "").Get())
}

func TestKeyed_MultipleKeysShareView(t *testing.T) {
	s := New(View{ID: "root"})
	name := Keyed(s, "name", "")
	count := Keyed(s, "count", 0)

	name.Set("Bob")
	count.Update(func(n int) int { return n + 2 })
	count.Update(func(n int) int { return n + 1 })

	assert.Equal(t, "Bob", name.Get())
	assert.Equal(t, 3, count.Get())
	state, ok := s.CurrentView().State.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Bob", "count": 3}, state)
}

func TestKeyed_WrongTypeFallsBackToInitial(t *testing.T) {
	s := New(View{ID: "root", State: map[string]any{"n": "not an int"}})
	assert.Equal(t, 5, Keyed(s, "n", 5).Get())
}

func TestKeyed_CopyOnWrite(t *testing.T) {
	s := New(View{ID: "root"})
	b := Keyed(s, "k", "")
	b.Set("one")
	snapshot := s.CurrentView().State.(map[string]any)

	b.Set("two")

	assert.Equal(t, "one", snapshot["k"], "earlier snapshots must not change")
}

func TestWhole_ObjectMode(t *testing.T) {
	s := New(View{ID: "root"})
	form := Whole(s, previewForm{CategoryName: "Capitals"})

	assert.Equal(t, "Capitals", form.Get().CategoryName)
	form.Update(func(f previewForm) previewForm {
		f.ContestantName = "Carol"
		return f
	})
	assert.Equal(t, previewForm{ContestantName: "Carol", CategoryName: "Capitals"}, form.Get())
	assert.Equal(t, previewForm{ContestantName: "Carol", CategoryName: "Capitals"}, s.CurrentView().State)
}

func TestBinding_ViewGoneReturnsInitial(t *testing.T) {
	ctx := context.Background()
	s := New(View{ID: "root"})
	require.NoError(t, s.Push(ctx, View{ID: "child"}))
	b := Keyed(s, "k", "initial")
	b.Set("edited")
	assert.Equal(t, "child", b.ViewID())

	require.NoError(t, s.Pop(ctx))

	assert.Equal(t, "initial", b.Get())
	assert.False(t, b.Set("lost"))
}

func TestBinding_NoHooksFire(t *testing.T) {
	rec := &recorder{}
	s := New(hookedView("root", rec))
	Keyed(s, "k", 0).Set(1)
	Whole(s, "").Get()
	assert.Empty(t, rec.get())
}

func TestKeyedSet(t *testing.T) {
	s := New(View{ID: "root"})
	sel := KeyedSet[string](s, "selections")

	assert.Equal(t, 0, sel.Len())
	sel.Add("a.json")
	sel.Add("b.json")
	sel.Add("a.json")
	assert.Equal(t, []string{"a.json", "b.json"}, sel.Values())
	assert.True(t, sel.Has("b.json"))

	assert.False(t, sel.Toggle("a.json"))
	assert.True(t, sel.Toggle("c.json"))
	assert.Equal(t, []string{"b.json", "c.json"}, sel.Values())

	sel.Remove("missing")
	assert.Equal(t, 2, sel.Len())

	sel.Clear()
	assert.Empty(t, sel.Values())
}
