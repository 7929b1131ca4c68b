package documentai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manish-aj/DocumentAI/resource"
)

func TestRankMany(t *testing.T) {
	ctx := context.Background()

	newTestCollection := func(t *testing.T) *Collection[string, string] {
		t.Helper()

		c, err := NewCollection[string, string](2)
		require.NoError(t, err)

		require.NoError(t, c.Add(ctx, "east", []float32{1, 0}, ""))
		require.NoError(t, c.Add(ctx, "north", []float32{0, 1}, ""))
		require.NoError(t, c.Add(ctx, "northeast", []float32{1, 1}, ""))

		return c
	}

	t.Run("KeepsQueryOrder", func(t *testing.T) {
		c := newTestCollection(t)

		results, err := c.RankMany(ctx, [][]float32{
			{1, 0},
			{0, 1},
			{1, 1},
		}, func(o *CollectionRankOptions[string]) {
			o.TopN = 1
		})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "east", results[0][0].ID)
		assert.Equal(t, "north", results[1][0].ID)
		assert.Equal(t, "northeast", results[2][0].ID)
	})

	t.Run("ManyQueries", func(t *testing.T) {
		c := newTestCollection(t)

		queries := make([][]float32, 100)
		for i := range queries {
			queries[i] = []float32{float32(i%7) + 0.5, 1}
		}

		results, err := c.RankMany(ctx, queries)
		require.NoError(t, err)
		require.Len(t, results, 100)

		// Identical queries must produce identical results.
		assert.Equal(t, results[0], results[7])
		assert.Equal(t, results[3], results[10])
	})

	t.Run("Empty", func(t *testing.T) {
		c := newTestCollection(t)

		results, err := c.RankMany(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("FirstErrorWins", func(t *testing.T) {
		c := newTestCollection(t)

		_, err := c.RankMany(ctx, [][]float32{
			{1, 0},
			{1, 0, 0},
			{0, 1},
		})
		require.Error(t, err)

		var dm *ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		c := newTestCollection(t)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := c.RankMany(cctx, [][]float32{{1, 0}, {0, 1}})
		assert.Error(t, err)
	})

	t.Run("BoundedConcurrency", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MaxConcurrentRanks: 2})

		c, err := NewCollection[string, string](2, WithResourceController(rc))
		require.NoError(t, err)
		require.NoError(t, c.Add(ctx, "a", []float32{1, 0}, ""))

		queries := make([][]float32, 50)
		for i := range queries {
			queries[i] = []float32{1, float32(i)}
		}

		results, err := c.RankMany(ctx, queries)
		require.NoError(t, err)
		assert.Len(t, results, 50)
	})
}
