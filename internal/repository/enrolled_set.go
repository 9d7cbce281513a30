package repository

import (
	"sort"
	"sync"
)

// EnrolledSet caches the ids of the courses the student currently holds.
type EnrolledSet struct {
	mu     sync.RWMutex
	ids    map[int]struct{}
	seeded bool
}

// NewEnrolledSet constructs an empty set.
func NewEnrolledSet() *EnrolledSet {
	return &EnrolledSet{ids: make(map[int]struct{})}
}

// Replace swaps the whole set, typically with a fresh server copy.
func (s *EnrolledSet) Replace(ids []int) {
	next := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.mu.Lock()
	s.ids = next
	s.seeded = true
	s.mu.Unlock()
}

// Add inserts ids.
func (s *EnrolledSet) Add(ids ...int) {
	s.mu.Lock()
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.mu.Unlock()
}

// Remove deletes ids.
func (s *EnrolledSet) Remove(ids ...int) {
	s.mu.Lock()
	for _, id := range ids {
		delete(s.ids, id)
	}
	s.mu.Unlock()
}

// Contains reports membership.
func (s *EnrolledSet) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the members in ascending order.
func (s *EnrolledSet) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of members.
func (s *EnrolledSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Seeded reports whether the set was ever replaced with a server copy.
func (s *EnrolledSet) Seeded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seeded
}
