// Package distance provides public API for vector distance calculations.
// All distance functions use the pure float32 kernels from internal/f32.
package distance

import (
	"fmt"
	"slices"
	"strings"

	"github.com/manish-aj/DocumentAI/internal/f32"
)

// maxCosineDistance is the cosine distance reported when either operand has
// zero L2 norm and the angle is undefined. It is the upper bound of the
// metric, placing degenerate inputs last in any ranking.
const maxCosineDistance = 2.0

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return f32.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return f32.SquaredL2(a, b)
}

// Euclidean calculates the straight-line L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Euclidean(a, b []float32) float32 {
	return f32.Sqrt(f32.SquaredL2(a, b))
}

// Cosine calculates the cosine distance 1 - cos(a, b) between two vectors.
// The result lies in [0, 2]: 0 for parallel, 1 for orthogonal and 2 for
// opposite vectors. If either operand has zero L2 norm the angle is undefined
// and the maximal distance 2 is returned.
// Assumes vectors are the same length (caller's responsibility).
func Cosine(a, b []float32) float32 {
	na := f32.Dot(a, a)
	nb := f32.Dot(b, b)

	if na == 0 || nb == 0 {
		return maxCosineDistance
	}

	d := 1 - f32.Dot(a, b)/(f32.Sqrt(na)*f32.Sqrt(nb))

	// Rounding can push the result slightly outside [0, 2].
	if d < 0 {
		return 0
	}

	if d > maxCosineDistance {
		return maxCosineDistance
	}

	return d
}

// InnerProduct calculates the negated dot product of two vectors, so that
// smaller means more similar. The result is unbounded and only meaningful
// relative to other candidates scored against the same query.
// Assumes vectors are the same length (caller's responsibility).
func InnerProduct(a, b []float32) float32 {
	return -f32.Dot(a, b)
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float32 {
	return f32.Norm(v)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}

	norm2 := f32.Dot(v, v)
	if norm2 == 0 {
		return false
	}

	f32.ScaleInPlace(v, 1/f32.Sqrt(norm2))

	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}

	return dst, true
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	// MetricCosine ranks by the angle between vectors, ignoring magnitude.
	MetricCosine Metric = iota
	// MetricEuclidean ranks by straight-line distance.
	MetricEuclidean
	// MetricSquaredL2 orders like MetricEuclidean but skips the square root.
	MetricSquaredL2
	// MetricDot ranks by negated inner product.
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "Cosine"
	case MetricEuclidean:
		return "Euclidean"
	case MetricSquaredL2:
		return "SquaredL2"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ErrUnknownMetric indicates a metric name or value with no registered
// distance function.
type ErrUnknownMetric struct {
	Name string
}

func (e *ErrUnknownMetric) Error() string {
	return fmt.Sprintf("unknown metric: %q", e.Name)
}

// Parse resolves a metric from its wire name, e.g. from configuration or a
// request payload. Matching is case-insensitive.
func Parse(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cosine":
		return MetricCosine, nil
	case "euclidean", "l2":
		return MetricEuclidean, nil
	case "sqeuclidean", "squared_l2", "squaredl2":
		return MetricSquaredL2, nil
	case "dot", "ip", "inner_product":
		return MetricDot, nil
	default:
		return 0, &ErrUnknownMetric{Name: name}
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricCosine:
		return Cosine, nil
	case MetricEuclidean:
		return Euclidean, nil
	case MetricSquaredL2:
		return SquaredL2, nil
	case MetricDot:
		return InnerProduct, nil
	default:
		return nil, &ErrUnknownMetric{Name: m.String()}
	}
}
