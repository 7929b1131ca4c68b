package documentai

import (
	"context"
)

// Recommend ranks the collection against member id's own vector, excluding
// the member itself, so the result reads as "more like this one".
//
// Unknown ids fail with ErrNotFound. If id is the only member,
// ErrEmptyCandidates is returned.
func (c *Collection[K, T]) Recommend(ctx context.Context, id K, optFns ...func(o *CollectionRankOptions[K])) (RankedResult[K], error) {
	vec, err := c.Vector(id)
	if err != nil {
		return nil, err
	}

	// Applied after the caller's options so the self-exclusion always holds.
	optFns = append(optFns, func(o *CollectionRankOptions[K]) {
		o.Exclude = append(o.Exclude, id)
	})

	return c.Rank(ctx, vec, optFns...)
}
