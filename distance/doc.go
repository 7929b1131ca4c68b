// Package distance provides the distance metrics used for ranking embedding
// vectors.
//
// # Supported Metrics
//
//   - MetricCosine: cosine distance, 1 - dot(a,b)/(norm(a)*norm(b)) (default)
//   - MetricEuclidean: straight-line L2 distance
//   - MetricSquaredL2: squared Euclidean distance (same ordering, no sqrt)
//   - MetricDot: inner-product distance (negated dot product)
//
// Metrics can be selected programmatically (distance.MetricCosine) or parsed
// from their wire names ("cosine", "euclidean", ...) via Parse.
//
// # Usage
//
//	fn, err := distance.Provider(distance.MetricCosine)
//	d := fn(query, candidate)
package distance
