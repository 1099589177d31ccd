package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestState_ByPath_Sorted(t *testing.T) {
	s := NewState(map[string]*File{
		"b.txt": {Path: "b.txt"},
		"a.txt": {Path: "a.txt"},
		"c.txt": {Path: "c.txt"},
	})

	out := s.ByPath()
	require.Len(t, out, 3)
	require.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, []string{out[0].Path, out[1].Path, out[2].Path})
}

func TestState_Search(t *testing.T) {
	s := NewState(map[string]*File{
		"dir/a.txt": {Path: "dir/a.txt"},
		"dir/b.txt": {Path: "dir/b.txt"},
		"other.txt": {Path: "other.txt"},
	})

	matched := s.Search(NewPattern("dir"))
	require.Equal(t, 2, matched.Len())
	_, ok := matched.Get("other.txt")
	require.False(t, ok)
}

func TestState_Search_EmptyPatternReturnsAll(t *testing.T) {
	s := NewState(map[string]*File{"a.txt": {Path: "a.txt"}})
	require.Same(t, s, s.Search(NewPattern("")))
}

func TestPattern_Matches(t *testing.T) {
	p := NewPattern("dir/sub")
	require.True(t, p.Matches("dir/sub"))
	require.True(t, p.Matches("dir/sub/file.txt"))
	require.False(t, p.Matches("dir/subother.txt"))
	require.False(t, p.Matches("other"))
}

func TestPattern_Matches_Empty(t *testing.T) {
	p := NewPattern("")
	require.True(t, p.Matches("anything"))
}

func TestChangeset_Empty(t *testing.T) {
	cs := NewChangeset()
	require.True(t, cs.Empty())
	cs.Added["a.txt"] = &File{Path: "a.txt"}
	require.False(t, cs.Empty())
}
