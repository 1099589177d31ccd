package domain

import "sort"

// State is a read-only mapping from path to File representing the live
// set at some timestamp T. Invariant: no entry has Action == ActionDelete.
type State struct {
	files map[string]*File
}

// NewState wraps a path->File map as a State. Callers must not pass any
// entry whose Action is ActionDelete.
func NewState(files map[string]*File) *State {
	return &State{files: files}
}

// Get returns the File at path and whether it is present.
func (s *State) Get(path string) (*File, bool) {
	f, ok := s.files[path]
	return f, ok
}

// Len returns the number of live paths.
func (s *State) Len() int {
	return len(s.files)
}

// ByPath returns the entries sorted lexicographically by path.
func (s *State) ByPath() []*File {
	out := make([]*File, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Search retains entries whose path matches pattern. An empty pattern
// returns the full state.
func (s *State) Search(pattern Pattern) *State {
	if pattern.Empty() {
		return s
	}
	matched := make(map[string]*File)
	for path, f := range s.files {
		if pattern.Matches(path) {
			matched[path] = f
		}
	}
	return NewState(matched)
}
