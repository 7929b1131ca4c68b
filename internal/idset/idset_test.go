package idset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	t.Run("AddRemoveContains", func(t *testing.T) {
		s := New()
		assert.True(t, s.IsEmpty())

		s.Add(3)
		s.Add(7)
		s.Add(3)

		assert.True(t, s.Contains(3))
		assert.True(t, s.Contains(7))
		assert.False(t, s.Contains(4))
		assert.Equal(t, uint64(2), s.Cardinality())

		s.Remove(3)
		assert.False(t, s.Contains(3))
		assert.Equal(t, uint64(1), s.Cardinality())
	})

	t.Run("Of", func(t *testing.T) {
		s := Of(5, 1, 9)

		assert.Equal(t, uint64(3), s.Cardinality())
		assert.True(t, s.Contains(1))
		assert.True(t, s.Contains(5))
		assert.True(t, s.Contains(9))
	})

	t.Run("AllAscending", func(t *testing.T) {
		s := Of(9, 2, 40, 7)

		var got []uint32
		for slot := range s.All() {
			got = append(got, slot)
		}

		assert.Equal(t, []uint32{2, 7, 9, 40}, got)
	})

	t.Run("AllEarlyStop", func(t *testing.T) {
		s := Of(1, 2, 3, 4)

		var got []uint32
		for slot := range s.All() {
			got = append(got, slot)
			if len(got) == 2 {
				break
			}
		}

		assert.Equal(t, []uint32{1, 2}, got)
	})

	t.Run("SetOperations", func(t *testing.T) {
		a := Of(1, 2, 3, 4)
		a.And(Of(2, 4, 6))
		assert.Equal(t, uint64(2), a.Cardinality())
		assert.True(t, a.Contains(2))
		assert.True(t, a.Contains(4))

		b := Of(1, 2, 3)
		b.AndNot(Of(2))
		assert.Equal(t, uint64(2), b.Cardinality())
		assert.False(t, b.Contains(2))

		c := Of(1)
		c.Or(Of(2))
		assert.Equal(t, uint64(2), c.Cardinality())
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		s := Of(1, 2)
		c := s.Clone()

		c.Add(3)
		require.True(t, c.Contains(3))
		assert.False(t, s.Contains(3))
	})

	t.Run("Clear", func(t *testing.T) {
		s := Of(1, 2, 3)
		s.Clear()

		assert.True(t, s.IsEmpty())
		assert.Equal(t, uint64(0), s.Cardinality())
	})
}
