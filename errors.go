package documentai

import (
	"errors"
	"fmt"

	"github.com/manish-aj/DocumentAI/cluster"
	"github.com/manish-aj/DocumentAI/distance"
)

var (
	// ErrEmptyCandidates is returned when ranking is attempted against an
	// empty candidate collection.
	ErrEmptyCandidates = errors.New("empty candidates")

	// ErrEmptyVector is returned when a query or candidate vector has no
	// components.
	ErrEmptyVector = errors.New("empty vector")

	// ErrNotFound is returned when an item is not found.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when an item with the same ID already exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidK is returned when a cluster count is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidDimension indicates an invalid configured dimension.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	Dimension int
	cause     error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

// ErrUnknownMetric indicates an unrecognized distance metric.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnknownMetric struct {
	Name  string
	cause error
}

func (e *ErrUnknownMetric) Error() string {
	return fmt.Sprintf("unknown metric: %q", e.Name)
}

func (e *ErrUnknownMetric) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Metric normalization.
	var um *distance.ErrUnknownMetric
	if errors.As(err, &um) {
		return &ErrUnknownMetric{Name: um.Name, cause: err}
	}

	// Cluster argument normalization.
	if errors.Is(err, cluster.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}
	if errors.Is(err, cluster.ErrEmptyInput) {
		return fmt.Errorf("%w: %w", ErrEmptyCandidates, err)
	}
	var dm *cluster.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
