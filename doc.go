// Package documentai provides embedding-based similarity ranking for Go.
//
// The core operation scores a set of candidate vectors against a query and
// returns them ordered by ascending distance, with production-ready features
// including:
//
//   - Exact ranking under cosine or euclidean distance
//   - Deterministic results: equal distances keep input order, truncated
//     results are prefixes of full ones
//   - Type-safe generic collections keyed by any comparable ID
//   - Restrict/Exclude filtering with Roaring Bitmap-backed member sets
//   - Multi-query fan-out with bounded concurrency
//   - K-means clustering over collection members
//   - Zero-shot labeling against labeled prototype vectors
//   - Compressed snapshots (zstd, LZ4) to files or blob stores (local, S3,
//     MinIO)
//   - CSV dataset import/export for embedding interchange
//   - Structured logging, pluggable metrics, and shared resource limits
//
// # Quick Start
//
// One-shot ranking needs no setup:
//
//	candidates := []documentai.Candidate[string]{
//	    {ID: "a", Vector: []float32{1, 0}},
//	    {ID: "b", Vector: []float32{0, 1}},
//	}
//	result, err := documentai.Rank([]float32{0.9, 0.1}, candidates,
//	    func(o *documentai.RankOptions) {
//	        o.Metric = distance.MetricEuclidean
//	        o.TopN = 10
//	    })
//
// Collections add CRUD, filtering and persistence on top:
//
//	c, err := documentai.NewCollection[string, Document](768)
//	err = c.Add(ctx, "doc-1", embedding, Document{Title: "..."})
//	result, err := c.Rank(ctx, query, func(o *documentai.CollectionRankOptions) {
//	    o.TopN = 10
//	    o.Exclude = []string{"doc-1"}
//	})
//
// Persist and restore:
//
//	err = c.SaveToFile(ctx, "docs.snap")
//	c, err = documentai.LoadCollectionFromFile[string, Document](ctx, "docs.snap")
//
// # Distance Semantics
//
// Distances are ascending: smaller means more similar. Cosine distance is
// 1 - cosine similarity, ranging over [0, 2]; zero-norm vectors rank last
// at distance 2. Euclidean distance is the familiar L2 norm. The distance
// package also exposes squared L2 and dot-product variants for callers that
// only compare distances.
//
// # Subpackages
//
//   - cluster: k-means over raw vector sets
//   - label: zero-shot labeling on top of Rank
//   - dataset: CSV embedding interchange
//   - blobstore: snapshot storage backends (local, memory, S3, MinIO)
//   - resource: shared memory/concurrency/IO budgets
//   - testutil: deterministic vector generators for tests and benchmarks
package documentai
