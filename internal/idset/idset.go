// Package idset provides compact sets of candidate slots used for rank-time
// filtering. It wraps a 32-bit Roaring Bitmap.
//
// This is an internal package - callers filter by candidate ID through the
// collection API.
package idset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a compact set of candidate slots.
type Set struct {
	rb *roaring.Bitmap
}

// New creates a new empty set.
func New() *Set {
	return &Set{
		rb: roaring.New(),
	}
}

// Of creates a set holding the given slots.
func Of(slots ...uint32) *Set {
	s := New()
	s.rb.AddMany(slots)
	return s
}

// Add adds a slot to the set.
func (s *Set) Add(slot uint32) {
	s.rb.Add(slot)
}

// Remove removes a slot from the set.
func (s *Set) Remove(slot uint32) {
	s.rb.Remove(slot)
}

// Contains checks if a slot is in the set.
func (s *Set) Contains(slot uint32) bool {
	return s.rb.Contains(slot)
}

// IsEmpty returns true if the set is empty.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of slots in the set.
func (s *Set) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		rb: s.rb.Clone(),
	}
}

// All returns an iterator over the slots in ascending order.
func (s *Set) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// And keeps only slots present in both sets.
func (s *Set) And(other *Set) {
	s.rb.And(other.rb)
}

// AndNot removes the other set's slots from this one.
func (s *Set) AndNot(other *Set) {
	s.rb.AndNot(other.rb)
}

// Or adds the other set's slots to this one.
func (s *Set) Or(other *Set) {
	s.rb.Or(other.rb)
}

// Clear removes all slots from the set.
func (s *Set) Clear() {
	s.rb.Clear()
}
