// Package cluster provides k-means clustering over embedding vectors.
//
// Centroids are trained with Lloyd's algorithm: assign every vector to its
// nearest centroid, recompute each centroid as the mean of its members, and
// repeat until no assignment changes or MaxIterations is reached. Empty
// clusters are reseeded from a random data point so every centroid stays
// populated.
//
// Training is deterministic: runs with the same Seed and input produce
// identical results.
//
// # Usage
//
//	result, err := cluster.KMeans(ctx, vectors, 8)
//	if err != nil {
//		return err
//	}
//	idx, _ := cluster.Assign(query, result.Centroids, distance.MetricSquaredL2)
package cluster
