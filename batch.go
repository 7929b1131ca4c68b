package documentai

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RankMany ranks several independent queries concurrently against the same
// collection. Results keep query order. The first failing query cancels the
// remaining ones and its error is returned.
//
// Concurrency is bounded by the attached resource controller, or GOMAXPROCS
// when none is set.
func (c *Collection[K, T]) RankMany(ctx context.Context, queries [][]float32, optFns ...func(o *CollectionRankOptions[K])) ([]RankedResult[K], error) {
	results := make([]RankedResult[K], len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.controller.MaxConcurrentRanks())

	for i, query := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if err := c.controller.AcquireRank(gctx); err != nil {
				return err
			}
			defer c.controller.ReleaseRank()

			result, err := c.Rank(gctx, query, optFns...)
			if err != nil {
				return err
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
