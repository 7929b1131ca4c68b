package cluster

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/manish-aj/DocumentAI/distance"
)

// DefaultMaxIterations bounds Lloyd's algorithm when no limit is configured.
const DefaultMaxIterations = 100

var (
	// ErrInvalidK is returned when k is not positive or exceeds the number
	// of input vectors.
	ErrInvalidK = errors.New("invalid cluster count")

	// ErrEmptyInput is returned when there are no vectors to cluster.
	ErrEmptyInput = errors.New("no input vectors")
)

// ErrDimensionMismatch is returned when input vectors disagree on
// dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// KMeansOptions contains options for KMeans.
type KMeansOptions struct {
	// MaxIterations caps the number of Lloyd iterations.
	// Default: DefaultMaxIterations.
	MaxIterations int

	// Metric selects the distance used for assignment.
	// Default: distance.MetricSquaredL2.
	Metric distance.Metric

	// Seed seeds centroid initialization and empty-cluster reseeding.
	// Default: 1.
	Seed int64
}

// Result holds trained centroids and per-vector assignments.
type Result struct {
	// Centroids are the k trained cluster centers.
	Centroids [][]float32

	// Assignments[i] is the index of the centroid vector i belongs to.
	Assignments []int

	// Inertia is the sum of distances from each vector to its assigned
	// centroid under the configured metric. Lower is tighter.
	Inertia float64

	// Iterations is the number of Lloyd iterations performed.
	Iterations int
}

// KMeans partitions vectors into k clusters using Lloyd's algorithm.
//
// Initial centroids are drawn from the input without replacement using the
// configured seed. The context is checked between iterations, so long
// trainings can be canceled.
func KMeans(ctx context.Context, vectors [][]float32, k int, optFns ...func(o *KMeansOptions)) (*Result, error) {
	opts := KMeansOptions{
		MaxIterations: DefaultMaxIterations,
		Metric:        distance.MetricSquaredL2,
		Seed:          1,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	n := len(vectors)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidK, k)
	}
	if k > n {
		return nil, fmt.Errorf("%w: k=%d exceeds %d vectors", ErrInvalidK, k, n)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-length vector", ErrEmptyInput)
	}
	for _, vec := range vectors {
		if len(vec) != dim {
			return nil, &ErrDimensionMismatch{Expected: dim, Actual: len(vec)}
		}
	}

	distFunc, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	// Initialize centroids from distinct data points.
	centroids := make([][]float32, k)
	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		centroids[i] = slices.Clone(vectors[perm[i]])
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	counts := make([]int, k)
	sums := make([]float32, k*dim)

	iterations := 0
	for iter := 0; iter < opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations = iter + 1

		// Assignment step.
		changed := false
		for i, vec := range vectors {
			best := nearest(vec, centroids, distFunc)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed {
			break
		}

		// Update step.
		for i := range sums {
			sums[i] = 0
		}
		for i := range counts {
			counts[i] = 0
		}

		for i, vec := range vectors {
			base := assignments[i] * dim
			for d, x := range vec {
				sums[base+d] += x
			}
			counts[assignments[i]]++
		}

		for j := 0; j < k; j++ {
			if counts[j] == 0 {
				// Re-seed empty clusters from a random data point.
				copy(centroids[j], vectors[rng.Intn(n)])
				continue
			}
			scale := 1 / float32(counts[j])
			for d := 0; d < dim; d++ {
				centroids[j][d] = sums[j*dim+d] * scale
			}
		}
	}

	var inertia float64
	for i, vec := range vectors {
		inertia += float64(distFunc(vec, centroids[assignments[i]]))
	}

	return &Result{
		Centroids:   centroids,
		Assignments: assignments,
		Inertia:     inertia,
		Iterations:  iterations,
	}, nil
}

// Assign returns the index of the centroid nearest to vec under the given
// metric. Ties resolve to the lowest index.
func Assign(vec []float32, centroids [][]float32, metric distance.Metric) (int, error) {
	if len(centroids) == 0 {
		return -1, ErrEmptyInput
	}
	if len(vec) == 0 {
		return -1, fmt.Errorf("%w: zero-length vector", ErrEmptyInput)
	}
	for _, center := range centroids {
		if len(center) != len(vec) {
			return -1, &ErrDimensionMismatch{Expected: len(vec), Actual: len(center)}
		}
	}

	distFunc, err := distance.Provider(metric)
	if err != nil {
		return -1, err
	}

	return nearest(vec, centroids, distFunc), nil
}

func nearest(vec []float32, centroids [][]float32, distFunc distance.Func) int {
	best := 0
	bestDist := distFunc(vec, centroids[0])

	for j := 1; j < len(centroids); j++ {
		if d := distFunc(vec, centroids[j]); d < bestDist {
			bestDist = d
			best = j
		}
	}

	return best
}
