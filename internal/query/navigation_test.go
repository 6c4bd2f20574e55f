package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chilitreat/postindex/internal/content"
)

func threePosts() content.Collection {
	return content.Collection{
		"p1": tagged("One", "2024/1/1", nil),
		"p2": tagged("Two", "2024/1/2", nil),
		"p3": tagged("Three", "2024/1/3", nil),
	}
}

func ids(entries []content.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSortByDate_NewestFirst(t *testing.T) {
	e := newEngine(t)

	assert.Equal(t, []string{"p3", "p2", "p1"}, ids(e.SortByDate(threePosts())))
}

func TestSortByDate_ExcludesIllFormed(t *testing.T) {
	e := newEngine(t)
	c := threePosts()
	c["nil"] = nil
	c["untitled"] = tagged("", "2024/9/9", nil)
	c["undated"] = tagged("Undated", " ", nil)

	assert.Equal(t, []string{"p3", "p2", "p1"}, ids(e.SortByDate(c)))
}

func TestSortByDate_UnparseableSortsLast(t *testing.T) {
	// Given: two dated and two undatable posts
	e := newEngine(t)
	c := content.Collection{
		"zz-bad": tagged("Bad", "someday", nil),
		"aa-bad": tagged("Bad too", "2024/13/45", nil),
		"old":    tagged("Old", "2020/1/1", nil),
		"new":    tagged("New", "2024-06-01", nil),
	}

	// When: sorting
	got := ids(e.SortByDate(c))

	// Then: dated first, undatable after, ties by id
	assert.Equal(t, []string{"new", "old", "aa-bad", "zz-bad"}, got)
}

func TestSortByDate_EqualDatesTieBreakByID(t *testing.T) {
	e := newEngine(t)
	c := content.Collection{
		"b": tagged("B", "2024/1/1", nil),
		"a": tagged("A", "2024/01/01", nil),
		"c": tagged("C", "2024/1/1 00:00", nil),
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(e.SortByDate(c)))
}

func TestSortByDate_TimeOfDay(t *testing.T) {
	e := newEngine(t)
	c := content.Collection{
		"morning": tagged("M", "2024/1/1 09:00", nil),
		"evening": tagged("E", "2024/1/1 21:30:15", nil),
	}

	assert.Equal(t, []string{"evening", "morning"}, ids(e.SortByDate(c)))
}

func TestSortByDate_Memoized(t *testing.T) {
	// Given: one call populating the cache
	e := newEngine(t)
	first := e.SortByDate(threePosts())

	// When: a different map with the same ids is sorted
	second := e.SortByDate(threePosts())

	// Then: the identical cached slice comes back
	require.Len(t, second, 3)
	assert.Same(t, &first[0], &second[0])

	// And: clearing forces a fresh, still correct result
	e.Cache().Clear()
	third := e.SortByDate(threePosts())
	assert.NotSame(t, &first[0], &third[0])
	assert.Equal(t, ids(first), ids(third))
}

func TestSortByDate_WithoutCache(t *testing.T) {
	e := New(nil)

	assert.Equal(t, []string{"p3", "p2", "p1"}, ids(e.SortByDate(threePosts())))
	assert.Empty(t, e.SortByDate(nil))
}

func TestAdjacentOf(t *testing.T) {
	e := newEngine(t)
	c := threePosts()

	mid := e.AdjacentOf("p2", c)
	assert.Equal(t, &content.Neighbor{ID: "p3", Title: "Three"}, mid.Previous)
	assert.Equal(t, &content.Neighbor{ID: "p1", Title: "One"}, mid.Next)

	newest := e.AdjacentOf("p3", c)
	assert.Nil(t, newest.Previous)
	assert.Equal(t, "p2", newest.Next.ID)

	oldest := e.AdjacentOf("p1", c)
	assert.Nil(t, oldest.Next)
	assert.Equal(t, "p2", oldest.Previous.ID)
}

func TestAdjacentOf_Missing(t *testing.T) {
	e := newEngine(t)

	assert.True(t, e.AdjacentOf("nope", threePosts()).IsZero())
	assert.True(t, e.AdjacentOf("p1", nil).IsZero())
	assert.True(t, e.AdjacentOf("", threePosts()).IsZero())
}

func TestAdjacentOf_IdsWithSeparators(t *testing.T) {
	// Given: two collections whose joined ids would collide
	e := newEngine(t)
	a := content.Collection{
		"x,y": tagged("XY", "2024/1/2", nil),
		"z":   tagged("Z", "2024/1/1", nil),
	}
	b := content.Collection{
		"x":   tagged("X", "2024/1/2", nil),
		"y,z": tagged("YZ", "2024/1/1", nil),
	}

	// Then: results are not shared across them
	assert.Equal(t, "z", e.AdjacentOf("x,y", a).Next.ID)
	assert.Equal(t, "y,z", e.AdjacentOf("x", b).Next.ID)
}

func TestAllWithNeighbors(t *testing.T) {
	e := newEngine(t)
	c := threePosts()
	c["broken"] = nil

	all := e.AllWithNeighbors(c)

	require.Len(t, all, 3)
	assert.Equal(t, "p3", all[0].ID)
	assert.Nil(t, all[0].Previous)
	assert.Equal(t, "p2", all[0].Next.ID)
	assert.Equal(t, "p2", all[2].Previous.ID)
	assert.Nil(t, all[2].Next)
}

func TestIsValidID(t *testing.T) {
	c := threePosts()
	c["nil"] = nil
	c["untitled"] = tagged("", "2024/1/1", nil)

	assert.True(t, IsValidID("p1", c))
	assert.False(t, IsValidID("nil", c))
	assert.False(t, IsValidID("untitled", c))
	assert.False(t, IsValidID("missing", c))
	assert.False(t, IsValidID("p1", nil))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024/1/5", "2024/01/05", "2024-01-05", "2024-01-05T10:00:00", "2024-01-05T10:00:00+09:00"} {
		_, ok := ParseDate(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "yesterday", "2024/13/1"} {
		_, ok := ParseDate(s)
		assert.False(t, ok, s)
	}
}
