package documentai

import (
	"context"
	"time"

	"github.com/manish-aj/DocumentAI/cluster"
)

// Group is one cluster of collection members.
type Group[K comparable] struct {
	// Centroid is the cluster's center vector.
	Centroid []float32

	// Members holds the IDs assigned to this cluster, in insertion order.
	Members []K
}

// Cluster partitions the collection's members into k groups of similar
// vectors using k-means. Tombstoned members are skipped.
//
// Training runs on a snapshot of the membership, so concurrent writes are
// not blocked, and a result reflects the collection as it was when Cluster
// was called.
func (c *Collection[K, T]) Cluster(ctx context.Context, k int, optFns ...func(o *cluster.KMeansOptions)) ([]Group[K], error) {
	start := time.Now()

	// Stored vectors are cloned on write, so holding the slice headers
	// beyond the lock is safe.
	c.mu.RLock()
	n := int(c.live.Cardinality())
	ids := make([]K, 0, n)
	vectors := make([][]float32, 0, n)
	for slot := range c.live.All() {
		e := c.entries[slot]
		ids = append(ids, e.id)
		vectors = append(vectors, e.vector)
	}
	c.mu.RUnlock()

	result, err := cluster.KMeans(ctx, vectors, k, optFns...)

	err = translateError(err)
	duration := time.Since(start)

	iterations := 0
	if result != nil {
		iterations = result.Iterations
	}
	c.metrics.RecordCluster(k, len(vectors), duration, err)
	c.logger.LogCluster(ctx, k, iterations, err)

	if err != nil {
		return nil, err
	}

	groups := make([]Group[K], k)
	for j := range groups {
		groups[j].Centroid = result.Centroids[j]
	}
	for i, a := range result.Assignments {
		groups[a].Members = append(groups[a].Members, ids[i])
	}

	return groups, nil
}
