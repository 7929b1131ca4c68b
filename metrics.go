package documentai

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    addCounter    prometheus.Counter
//	    rankHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRank(candidates int, duration time.Duration, err error) {
//	    p.rankHistogram.Observe(duration.Seconds())
//	    // ... record error state, candidate count, etc.
//	}
type MetricsCollector interface {
	// RecordAdd is called after each add operation.
	// duration is the total time taken, err is nil if successful.
	RecordAdd(duration time.Duration, err error)

	// RecordAddBatch is called after each batch add operation.
	// count is the number of items attempted, failed is the number that failed,
	// duration is the total time taken.
	RecordAddBatch(count, failed int, duration time.Duration)

	// RecordRank is called after each ranking operation.
	// candidates is the number of candidates scored, duration is the time
	// taken, err is nil if successful.
	RecordRank(candidates int, duration time.Duration, err error)

	// RecordCluster is called after each clustering operation.
	// k is the requested cluster count, vectors is the number of members
	// clustered.
	RecordCluster(k, vectors int, duration time.Duration, err error)

	// RecordRemove is called after each remove operation.
	RecordRemove(duration time.Duration, err error)

	// RecordUpdate is called after each update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordSnapshotSave is called after each snapshot save.
	// bytes is the number of bytes written (0 on failure).
	RecordSnapshotSave(bytes int64, duration time.Duration, err error)

	// RecordSnapshotLoad is called after each snapshot load.
	// bytes is the number of bytes read (0 on failure).
	RecordSnapshotLoad(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)                 {}
func (NoopMetricsCollector) RecordAddBatch(int, int, time.Duration)         {}
func (NoopMetricsCollector) RecordRank(int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordCluster(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordRemove(time.Duration, error)              {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)              {}
func (NoopMetricsCollector) RecordSnapshotSave(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshotLoad(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount           atomic.Int64
	AddErrors          atomic.Int64
	AddTotalNanos      atomic.Int64
	AddBatchCount      atomic.Int64
	AddBatchItems      atomic.Int64
	AddBatchFailed     atomic.Int64
	RankCount          atomic.Int64
	RankErrors         atomic.Int64
	RankCandidates     atomic.Int64
	RankTotalNanos     atomic.Int64
	ClusterCount       atomic.Int64
	ClusterErrors      atomic.Int64
	ClusterVectors     atomic.Int64
	RemoveCount        atomic.Int64
	RemoveErrors       atomic.Int64
	UpdateCount        atomic.Int64
	UpdateErrors       atomic.Int64
	SnapshotSaveCount  atomic.Int64
	SnapshotSaveErrors atomic.Int64
	SnapshotSaveBytes  atomic.Int64
	SnapshotLoadCount  atomic.Int64
	SnapshotLoadErrors atomic.Int64
	SnapshotLoadBytes  atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, err error) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordAddBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAddBatch(count, failed int, duration time.Duration) {
	b.AddBatchCount.Add(1)
	b.AddBatchItems.Add(int64(count))
	b.AddBatchFailed.Add(int64(failed))
}

// RecordRank implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRank(candidates int, duration time.Duration, err error) {
	b.RankCount.Add(1)
	b.RankCandidates.Add(int64(candidates))
	b.RankTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RankErrors.Add(1)
	}
}

// RecordCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCluster(k, vectors int, duration time.Duration, err error) {
	b.ClusterCount.Add(1)
	b.ClusterVectors.Add(int64(vectors))
	if err != nil {
		b.ClusterErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(duration time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordSnapshotSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotSave(bytes int64, duration time.Duration, err error) {
	b.SnapshotSaveCount.Add(1)
	b.SnapshotSaveBytes.Add(bytes)
	if err != nil {
		b.SnapshotSaveErrors.Add(1)
	}
}

// RecordSnapshotLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshotLoad(bytes int64, duration time.Duration, err error) {
	b.SnapshotLoadCount.Add(1)
	b.SnapshotLoadBytes.Add(bytes)
	if err != nil {
		b.SnapshotLoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:           b.AddCount.Load(),
		AddErrors:          b.AddErrors.Load(),
		AddAvgNanos:        b.getAvgAddNanos(),
		AddBatchCount:      b.AddBatchCount.Load(),
		AddBatchItems:      b.AddBatchItems.Load(),
		AddBatchFailed:     b.AddBatchFailed.Load(),
		RankCount:          b.RankCount.Load(),
		RankErrors:         b.RankErrors.Load(),
		RankCandidates:     b.RankCandidates.Load(),
		RankAvgNanos:       b.getAvgRankNanos(),
		ClusterCount:       b.ClusterCount.Load(),
		ClusterErrors:      b.ClusterErrors.Load(),
		ClusterVectors:     b.ClusterVectors.Load(),
		RemoveCount:        b.RemoveCount.Load(),
		RemoveErrors:       b.RemoveErrors.Load(),
		UpdateCount:        b.UpdateCount.Load(),
		UpdateErrors:       b.UpdateErrors.Load(),
		SnapshotSaveCount:  b.SnapshotSaveCount.Load(),
		SnapshotSaveErrors: b.SnapshotSaveErrors.Load(),
		SnapshotSaveBytes:  b.SnapshotSaveBytes.Load(),
		SnapshotLoadCount:  b.SnapshotLoadCount.Load(),
		SnapshotLoadErrors: b.SnapshotLoadErrors.Load(),
		SnapshotLoadBytes:  b.SnapshotLoadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAddNanos() int64 {
	count := b.AddCount.Load()
	if count == 0 {
		return 0
	}
	return b.AddTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgRankNanos() int64 {
	count := b.RankCount.Load()
	if count == 0 {
		return 0
	}
	return b.RankTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount           int64
	AddErrors          int64
	AddAvgNanos        int64
	AddBatchCount      int64
	AddBatchItems      int64
	AddBatchFailed     int64
	RankCount          int64
	RankErrors         int64
	RankCandidates     int64
	RankAvgNanos       int64
	ClusterCount       int64
	ClusterErrors      int64
	ClusterVectors     int64
	RemoveCount        int64
	RemoveErrors       int64
	UpdateCount        int64
	UpdateErrors       int64
	SnapshotSaveCount  int64
	SnapshotSaveErrors int64
	SnapshotSaveBytes  int64
	SnapshotLoadCount  int64
	SnapshotLoadErrors int64
	SnapshotLoadBytes  int64
}
