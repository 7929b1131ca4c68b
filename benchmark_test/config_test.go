package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	documentai "github.com/manish-aj/DocumentAI"
	"github.com/manish-aj/DocumentAI/testutil"
)

// Standard dimensions used across benchmarks for consistency.
const (
	dimSmall  = 128  // Fast CI benchmarks
	dimMedium = 768  // OpenAI text-embedding-3-small, Cohere v3
	dimLarge  = 1536 // OpenAI text-embedding-3-large
)

// Standard dataset sizes.
const (
	sizeSmall  = 1_000
	sizeMedium = 10_000
	sizeLarge  = 100_000
)

// Seed for deterministic benchmarks - enables reproducible comparisons.
const benchSeed = 42

// newBenchCollection builds a collection of unit vectors.
func newBenchCollection(b *testing.B, size, dim int) *documentai.Collection[int, struct{}] {
	b.Helper()

	rng := testutil.NewRNG(benchSeed)
	c, err := documentai.NewCollection[int, struct{}](dim)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	for i, vec := range rng.UnitVectors(size, dim) {
		if err := c.Add(ctx, i, vec, struct{}{}); err != nil {
			b.Fatal(err)
		}
	}

	return c
}

// benchCandidates builds a one-shot candidate slice of unit vectors.
func benchCandidates(size, dim int) []documentai.Candidate[int] {
	rng := testutil.NewRNG(benchSeed)
	candidates := make([]documentai.Candidate[int], size)
	for i, vec := range rng.UnitVectors(size, dim) {
		candidates[i] = documentai.Candidate[int]{ID: i, Vector: vec}
	}
	return candidates
}

func sizeLabel(size int) string {
	if size >= 1000 {
		return fmt.Sprintf("%dk", size/1000)
	}
	return fmt.Sprintf("%d", size)
}
