// Package setutil provides small set helpers for ID collections.
package setutil

import "slices"

// UintSet is a set of uint IDs.
type UintSet struct {
	items map[uint]struct{}
}

func NewUintSet() *UintSet {
	return &UintSet{items: make(map[uint]struct{})}
}

func NewUintSetWithCap(cap int) *UintSet {
	return &UintSet{items: make(map[uint]struct{}, cap)}
}

func (s *UintSet) Add(id uint) {
	s.items[id] = struct{}{}
}

func (s *UintSet) AddAll(ids []uint) {
	for _, id := range ids {
		s.items[id] = struct{}{}
	}
}

func (s *UintSet) Has(id uint) bool {
	_, ok := s.items[id]
	return ok
}

// ToSlice returns the IDs in ascending order so callers building IN
// clauses get stable SQL arguments.
func (s *UintSet) ToSlice() []uint {
	result := make([]uint, 0, len(s.items))
	for id := range s.items {
		result = append(result, id)
	}
	slices.Sort(result)
	return result
}

func (s *UintSet) Len() int {
	return len(s.items)
}
