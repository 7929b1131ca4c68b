package documentai

import (
	"github.com/manish-aj/DocumentAI/distance"
	"github.com/manish-aj/DocumentAI/internal/queue"
)

// Candidate pairs an identifier with its embedding vector.
type Candidate[K comparable] struct {
	// ID identifies the candidate in ranking results.
	ID K

	// Vector is the candidate's embedding. All candidates of one ranking
	// call must share the query's dimensionality.
	Vector []float32
}

// Match is a single ranked candidate.
type Match[K comparable] struct {
	// ID is the identifier of the matched candidate.
	ID K

	// Distance is the distance to the query under the chosen metric.
	// Smaller means more similar.
	Distance float32
}

// RankedResult is an ordered list of matches, closest first.
// Candidates with equal distances keep their input order.
type RankedResult[K comparable] []Match[K]

// IDs returns just the identifiers, in ranked order.
func (r RankedResult[K]) IDs() []K {
	ids := make([]K, len(r))
	for i, m := range r {
		ids[i] = m.ID
	}
	return ids
}

// RankOptions contains options for Rank.
type RankOptions struct {
	// Metric selects the distance function.
	// Default: distance.MetricCosine.
	Metric distance.Metric

	// TopN caps the number of matches returned. Negative returns all
	// candidates; zero returns an empty result.
	// Default: -1 (all).
	TopN int
}

// Rank scores every candidate against the query and returns them ordered by
// ascending distance. Equal distances keep the candidates' input order, so
// the result is deterministic: ranking the same input twice yields the same
// output, and a TopN-truncated result is always a prefix of the full one.
//
// Rank is a pure function: it never mutates its inputs and is safe for
// concurrent callers.
//
// Example:
//
//	result, err := documentai.Rank(query, candidates,
//	    func(o *documentai.RankOptions) {
//	        o.Metric = distance.MetricEuclidean
//	        o.TopN = 10
//	    })
func Rank[K comparable](query []float32, candidates []Candidate[K], optFns ...func(o *RankOptions)) (RankedResult[K], error) {
	opts := RankOptions{
		Metric: distance.MetricCosine,
		TopN:   -1,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}

	if len(query) == 0 {
		return nil, ErrEmptyVector
	}

	for _, c := range candidates {
		if len(c.Vector) != len(query) {
			return nil, &ErrDimensionMismatch{Expected: len(query), Actual: len(c.Vector)}
		}
	}

	fn, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, translateError(err)
	}

	limit := opts.TopN
	if limit < 0 || limit > len(candidates) {
		limit = len(candidates)
	}

	if limit == 0 {
		return RankedResult[K]{}, nil
	}

	// Bounded collector ordered by (distance, input position): the truncated
	// result is exactly the prefix of the full stable sort.
	pq := queue.NewBounded(limit)
	for slot, c := range candidates {
		pq.Push(queue.Item{Slot: slot, Distance: fn(query, c.Vector)})
	}

	result := make(RankedResult[K], 0, limit)
	for _, item := range pq.Drain() {
		result = append(result, Match[K]{ID: candidates[item.Slot].ID, Distance: item.Distance})
	}

	return result, nil
}
