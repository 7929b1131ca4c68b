package documentai

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manish-aj/DocumentAI/distance"
)

func TestRank(t *testing.T) {
	t.Run("CosineTopN", func(t *testing.T) {
		candidates := []Candidate[string]{
			{ID: "a", Vector: []float32{1, 0}},
			{ID: "b", Vector: []float32{0, 1}},
			{ID: "c", Vector: []float32{1, 1}},
		}

		result, err := Rank([]float32{1, 0}, candidates, func(o *RankOptions) {
			o.TopN = 2
		})
		require.NoError(t, err)
		require.Len(t, result, 2)

		assert.Equal(t, "a", result[0].ID)
		assert.InDelta(t, float32(0), result[0].Distance, 1e-5)

		assert.Equal(t, "c", result[1].ID)
		assert.InDelta(t, float32(0.29289), result[1].Distance, 1e-4)
	})

	t.Run("Euclidean", func(t *testing.T) {
		candidates := []Candidate[int]{
			{ID: 1, Vector: []float32{3, 0}},
			{ID: 2, Vector: []float32{1, 0}},
			{ID: 3, Vector: []float32{2, 0}},
		}

		result, err := Rank([]float32{0, 0}, candidates, func(o *RankOptions) {
			o.Metric = distance.MetricEuclidean
		})
		require.NoError(t, err)

		assert.Equal(t, []int{2, 3, 1}, result.IDs())
		assert.InDelta(t, float32(1), result[0].Distance, 1e-5)
		assert.InDelta(t, float32(2), result[1].Distance, 1e-5)
		assert.InDelta(t, float32(3), result[2].Distance, 1e-5)
	})

	t.Run("QueryEqualsCandidate", func(t *testing.T) {
		candidates := []Candidate[string]{
			{ID: "far", Vector: []float32{-3, 7, 1}},
			{ID: "self", Vector: []float32{0.5, 0.25, -1}},
			{ID: "near", Vector: []float32{0.4, 0.3, -1}},
		}

		for _, m := range []distance.Metric{distance.MetricCosine, distance.MetricEuclidean} {
			result, err := Rank([]float32{0.5, 0.25, -1}, candidates, func(o *RankOptions) {
				o.Metric = m
			})
			require.NoError(t, err, m)

			assert.Equal(t, "self", result[0].ID, m)
			assert.InDelta(t, float32(0), result[0].Distance, 1e-5, m)
		}
	})

	t.Run("NonDecreasingDistances", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))

		candidates := make([]Candidate[int], 100)
		for i := range candidates {
			candidates[i] = Candidate[int]{ID: i, Vector: []float32{rng.Float32(), rng.Float32(), rng.Float32()}}
		}

		result, err := Rank([]float32{0.5, 0.5, 0.5}, candidates)
		require.NoError(t, err)
		require.Len(t, result, len(candidates))

		for i := 1; i < len(result); i++ {
			assert.GreaterOrEqual(t, result[i].Distance, result[i-1].Distance)
		}
	})

	t.Run("StableTies", func(t *testing.T) {
		// All candidates are the same direction: every distance ties.
		candidates := []Candidate[string]{
			{ID: "first", Vector: []float32{1, 1}},
			{ID: "second", Vector: []float32{2, 2}},
			{ID: "third", Vector: []float32{3, 3}},
		}

		result, err := Rank([]float32{1, 1}, candidates)
		require.NoError(t, err)

		assert.Equal(t, []string{"first", "second", "third"}, result.IDs())
	})

	t.Run("Idempotent", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))

		candidates := make([]Candidate[int], 50)
		for i := range candidates {
			candidates[i] = Candidate[int]{ID: i, Vector: []float32{rng.Float32(), rng.Float32()}}
		}
		query := []float32{rng.Float32(), rng.Float32()}

		first, err := Rank(query, candidates)
		require.NoError(t, err)

		second, err := Rank(query, candidates)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("TopNLargerThanInput", func(t *testing.T) {
		candidates := []Candidate[string]{
			{ID: "a", Vector: []float32{1, 0}},
			{ID: "b", Vector: []float32{0, 1}},
		}

		result, err := Rank([]float32{1, 0}, candidates, func(o *RankOptions) {
			o.TopN = 10
		})
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("TopNZero", func(t *testing.T) {
		candidates := []Candidate[string]{
			{ID: "a", Vector: []float32{1, 0}},
		}

		result, err := Rank([]float32{1, 0}, candidates, func(o *RankOptions) {
			o.TopN = 0
		})
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("ZeroNormCandidateSortsLast", func(t *testing.T) {
		candidates := []Candidate[string]{
			{ID: "zero", Vector: []float32{0, 0}},
			{ID: "close", Vector: []float32{1, 0.1}},
			{ID: "far", Vector: []float32{-1, 0}},
		}

		result, err := Rank([]float32{1, 0}, candidates)
		require.NoError(t, err)
		require.Len(t, result, 3)

		assert.Equal(t, "close", result[0].ID)
		// Opposite direction and undefined angle both report the maximal
		// distance 2; the zero vector came first, so it wins the tie.
		assert.Equal(t, "zero", result[1].ID)
		assert.Equal(t, float32(2), result[1].Distance)
		assert.Equal(t, "far", result[2].ID)
		assert.Equal(t, float32(2), result[2].Distance)
	})

	t.Run("DoesNotMutateInputs", func(t *testing.T) {
		query := []float32{0.3, 0.7}
		candidates := []Candidate[string]{
			{ID: "a", Vector: []float32{0.9, 0.1}},
			{ID: "b", Vector: []float32{0.2, 0.8}},
		}

		_, err := Rank(query, candidates)
		require.NoError(t, err)

		assert.Equal(t, []float32{0.3, 0.7}, query)
		assert.Equal(t, []float32{0.9, 0.1}, candidates[0].Vector)
		assert.Equal(t, []float32{0.2, 0.8}, candidates[1].Vector)
	})
}

func TestRankErrors(t *testing.T) {
	t.Run("EmptyCandidates", func(t *testing.T) {
		_, err := Rank([]float32{1, 0}, []Candidate[string]{})
		assert.ErrorIs(t, err, ErrEmptyCandidates)

		_, err = Rank[string]([]float32{1, 0}, nil)
		assert.ErrorIs(t, err, ErrEmptyCandidates)
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		candidates := []Candidate[string]{{ID: "a", Vector: []float32{1, 0}}}

		_, err := Rank(nil, candidates)
		assert.ErrorIs(t, err, ErrEmptyVector)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		candidates := []Candidate[string]{
			{ID: "a", Vector: []float32{1, 0}},
			{ID: "b", Vector: []float32{1, 0, 0}},
		}

		_, err := Rank([]float32{1, 0}, candidates)
		require.Error(t, err)

		var dm *ErrDimensionMismatch
		require.True(t, errors.As(err, &dm))
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 3, dm.Actual)
	})

	t.Run("UnknownMetric", func(t *testing.T) {
		candidates := []Candidate[string]{{ID: "a", Vector: []float32{1, 0}}}

		_, err := Rank([]float32{1, 0}, candidates, func(o *RankOptions) {
			o.Metric = distance.Metric(99)
		})
		require.Error(t, err)

		var um *ErrUnknownMetric
		require.True(t, errors.As(err, &um))
		assert.Equal(t, "Unknown(99)", um.Name)

		// The distance-level error stays reachable through the chain.
		var dum *distance.ErrUnknownMetric
		assert.True(t, errors.As(err, &dum))
	})
}

// TestRankTruncationIsPrefix cross-checks the bounded collector against the
// full ranking for every cut-off, on data dense with distance ties.
func TestRankTruncationIsPrefix(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	const n = 200

	candidates := make([]Candidate[int], n)
	for i := range candidates {
		// Axis-aligned grid positions so many candidates tie exactly.
		candidates[i] = Candidate[int]{
			ID:     i,
			Vector: []float32{float32(rng.Intn(5)), float32(rng.Intn(5))},
		}
	}
	query := []float32{1, 2}

	full, err := Rank(query, candidates, func(o *RankOptions) {
		o.Metric = distance.MetricSquaredL2
	})
	require.NoError(t, err)
	require.Len(t, full, n)

	for _, topN := range []int{1, 3, 50, n - 1, n} {
		truncated, err := Rank(query, candidates, func(o *RankOptions) {
			o.Metric = distance.MetricSquaredL2
			o.TopN = topN
		})
		require.NoError(t, err)

		assert.Equal(t, full[:topN], truncated, "topN=%d", topN)
	}
}

func TestRankedResultIDs(t *testing.T) {
	r := RankedResult[string]{
		{ID: "x", Distance: 0.1},
		{ID: "y", Distance: 0.2},
	}

	assert.Equal(t, []string{"x", "y"}, r.IDs())
	assert.Empty(t, RankedResult[string]{}.IDs())
}

func BenchmarkRank(b *testing.B) {
	rng := rand.New(rand.NewSource(42))

	const (
		dim = 1536
		n   = 1000
	)

	candidates := make([]Candidate[int], n)
	for i := range candidates {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = rng.Float32()
		}
		candidates[i] = Candidate[int]{ID: i, Vector: vec}
	}

	query := make([]float32, dim)
	for j := range query {
		query[j] = rng.Float32()
	}

	for _, tc := range []struct {
		name   string
		metric distance.Metric
		topN   int
	}{
		{"Cosine/All", distance.MetricCosine, -1},
		{"Cosine/Top10", distance.MetricCosine, 10},
		{"Euclidean/Top10", distance.MetricEuclidean, 10},
	} {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_, err := Rank(query, candidates, func(o *RankOptions) {
					o.Metric = tc.metric
					o.TopN = tc.topN
				})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
