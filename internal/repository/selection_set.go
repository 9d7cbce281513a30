package repository

import (
	"sort"
	"sync"

	"github.com/noah-isme/coursereg-client/internal/models"
)

// SelectionSet holds the course ids checked on one page.
type SelectionSet struct {
	mu  sync.Mutex
	ids map[int]struct{}
}

// NewSelectionSet constructs an empty selection.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{ids: make(map[int]struct{})}
}

// Set checks or unchecks ids.
func (s *SelectionSet) Set(checked bool, ids ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if checked {
			s.ids[id] = struct{}{}
			continue
		}
		delete(s.ids, id)
	}
}

// Has reports whether id is checked.
func (s *SelectionSet) Has(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the checked ids in ascending order.
func (s *SelectionSet) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of checked ids.
func (s *SelectionSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Clear empties the selection.
func (s *SelectionSet) Clear() {
	s.mu.Lock()
	s.ids = make(map[int]struct{})
	s.mu.Unlock()
}

// Retain drops every id for which keep returns false.
func (s *SelectionSet) Retain(keep func(id int) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ids {
		if !keep(id) {
			delete(s.ids, id)
		}
	}
}

// SelectionRegistry owns one SelectionSet per page.
type SelectionRegistry struct {
	mu    sync.Mutex
	pages map[models.SelectionPage]*SelectionSet
}

// NewSelectionRegistry constructs a registry for the known pages.
func NewSelectionRegistry() *SelectionRegistry {
	return &SelectionRegistry{pages: map[models.SelectionPage]*SelectionSet{
		models.SelectionPageOpened:     NewSelectionSet(),
		models.SelectionPageRegistered: NewSelectionSet(),
	}}
}

// Page returns the selection of a page; unknown pages report false.
func (r *SelectionRegistry) Page(page models.SelectionPage) (*SelectionSet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.pages[page]
	return set, ok
}

// Reset discards a page's selection, as when the page is left.
func (r *SelectionRegistry) Reset(page models.SelectionPage) {
	if set, ok := r.Page(page); ok {
		set.Clear()
	}
}
