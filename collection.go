package documentai

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/manish-aj/DocumentAI/codec"
	"github.com/manish-aj/DocumentAI/distance"
	"github.com/manish-aj/DocumentAI/internal/idset"
	"github.com/manish-aj/DocumentAI/internal/queue"
	"github.com/manish-aj/DocumentAI/resource"
)

// entry is one stored candidate, addressed by its slot. Slots are assigned in
// insertion order and never reused: a removed entry leaves a tombstone behind
// so ranking tie order stays stable across the collection's lifetime.
type entry[K comparable, T any] struct {
	id     K
	vector []float32
	data   T
}

// Item represents a candidate along with associated payload data.
type Item[K comparable, T any] struct {
	ID     K
	Vector []float32
	Data   T
}

// Collection is a mutable, insertion-ordered set of candidates sharing one
// vector dimensionality, with optional payload data attached to each member.
// All methods are safe for concurrent use.
type Collection[K comparable, T any] struct {
	mu        sync.RWMutex
	dimension int
	entries   []entry[K, T] // indexed by slot
	slots     map[K]uint32
	live      *idset.Set

	codec      codec.Codec
	metrics    MetricsCollector
	logger     *Logger
	controller *resource.Controller
}

// NewCollection creates an empty collection for vectors of the given
// dimensionality.
func NewCollection[K comparable, T any](dimension int, optFns ...Option) (*Collection[K, T], error) {
	if dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimension}
	}

	opts := applyOptions(optFns)

	return &Collection[K, T]{
		dimension:  dimension,
		slots:      make(map[K]uint32),
		live:       idset.New(),
		codec:      opts.codec,
		metrics:    opts.metricsCollector,
		logger:     opts.logger.WithDimension(dimension),
		controller: opts.controller,
	}, nil
}

// Dimension returns the vector dimensionality shared by all members.
func (c *Collection[K, T]) Dimension() int {
	return c.dimension
}

// Len returns the number of members currently in the collection.
func (c *Collection[K, T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return int(c.live.Cardinality())
}

// vectorBytes is the managed memory charged per stored vector.
func (c *Collection[K, T]) vectorBytes() int64 {
	return int64(c.dimension) * 4
}

// Add inserts a candidate with associated payload data.
// The vector is copied; later changes to the caller's slice have no effect.
func (c *Collection[K, T]) Add(ctx context.Context, id K, vector []float32, data T) error {
	start := time.Now()
	err := c.add(ctx, id, vector, data)
	duration := time.Since(start)

	c.metrics.RecordAdd(duration, err)
	c.logger.LogAdd(ctx, id, len(vector), err)

	return err
}

func (c *Collection[K, T]) add(ctx context.Context, id K, vector []float32, data T) error {
	if len(vector) == 0 {
		return ErrEmptyVector
	}

	if len(vector) != c.dimension {
		return &ErrDimensionMismatch{Expected: c.dimension, Actual: len(vector)}
	}

	if err := c.controller.AcquireMemory(ctx, c.vectorBytes()); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.slots[id]; ok {
		c.controller.ReleaseMemory(c.vectorBytes())
		return ErrDuplicateID
	}

	slot := uint32(len(c.entries))
	c.entries = append(c.entries, entry[K, T]{
		id:     id,
		vector: slices.Clone(vector),
		data:   data,
	})
	c.slots[id] = slot
	c.live.Add(slot)

	return nil
}

// AddBatchResult represents the result of a batch add.
type AddBatchResult struct {
	// Added is the number of items inserted.
	Added int

	// Errors holds one slot per input item, nil for successful ones.
	Errors []error
}

// AddBatch inserts multiple candidates. Items are added independently in
// input order: a failed item does not affect the others.
func (c *Collection[K, T]) AddBatch(ctx context.Context, items []Item[K, T]) AddBatchResult {
	start := time.Now()
	result := AddBatchResult{
		Errors: make([]error, len(items)),
	}

	for i, item := range items {
		if err := c.add(ctx, item.ID, item.Vector, item.Data); err != nil {
			result.Errors[i] = err
		} else {
			result.Added++
		}
	}

	failed := len(items) - result.Added
	c.metrics.RecordAddBatch(len(items), failed, time.Since(start))
	c.logger.LogAddBatch(ctx, len(items), failed)

	return result
}

// Get returns the payload data associated with id.
func (c *Collection[K, T]) Get(id K) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slot, ok := c.slots[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}

	return c.entries[slot].data, nil
}

// Vector returns a copy of the vector associated with id.
func (c *Collection[K, T]) Vector(id K) ([]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slot, ok := c.slots[id]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(c.entries[slot].vector), nil
}

// Update replaces the vector and payload data of an existing member.
// The member keeps its slot, so ranking tie order is unaffected.
func (c *Collection[K, T]) Update(ctx context.Context, id K, vector []float32, data T) error {
	start := time.Now()
	err := c.update(id, vector, data)
	duration := time.Since(start)

	c.metrics.RecordUpdate(duration, err)
	c.logger.LogUpdate(ctx, id, err)

	return err
}

func (c *Collection[K, T]) update(id K, vector []float32, data T) error {
	if len(vector) != c.dimension {
		return &ErrDimensionMismatch{Expected: c.dimension, Actual: len(vector)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.slots[id]
	if !ok {
		return ErrNotFound
	}

	c.entries[slot].vector = slices.Clone(vector)
	c.entries[slot].data = data

	return nil
}

// Remove deletes a member. Its slot is tombstoned, not reused.
func (c *Collection[K, T]) Remove(ctx context.Context, id K) error {
	start := time.Now()
	err := c.remove(id)
	duration := time.Since(start)

	c.metrics.RecordRemove(duration, err)
	c.logger.LogRemove(ctx, id, err)

	return err
}

func (c *Collection[K, T]) remove(id K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.slots[id]
	if !ok {
		return ErrNotFound
	}

	var zero entry[K, T]
	c.entries[slot] = zero
	delete(c.slots, id)
	c.live.Remove(slot)
	c.controller.ReleaseMemory(c.vectorBytes())

	return nil
}

// IDs returns the member identifiers in insertion order.
func (c *Collection[K, T]) IDs() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]K, 0, c.live.Cardinality())
	for slot := range c.live.All() {
		ids = append(ids, c.entries[slot].id)
	}

	return ids
}

// All returns an iterator over the members in insertion order.
// Vectors are copies; mutating them has no effect on the collection.
func (c *Collection[K, T]) All() iter.Seq[Item[K, T]] {
	return func(yield func(Item[K, T]) bool) {
		c.mu.RLock()
		defer c.mu.RUnlock()

		for slot := range c.live.All() {
			e := c.entries[slot]
			item := Item[K, T]{
				ID:     e.id,
				Vector: slices.Clone(e.vector),
				Data:   e.data,
			}
			if !yield(item) {
				return
			}
		}
	}
}

// CollectionRankOptions contains options for Collection.Rank.
type CollectionRankOptions[K comparable] struct {
	RankOptions

	// Restrict limits ranking to the given members. Unknown IDs are
	// ignored. An empty slice means no restriction.
	Restrict []K

	// Exclude skips the given members. Unknown IDs are ignored.
	Exclude []K
}

// Rank scores the collection's members against the query and returns them
// ordered by ascending distance, ties in insertion order.
//
// If no members remain after Restrict/Exclude filtering, ErrEmptyCandidates
// is returned.
func (c *Collection[K, T]) Rank(ctx context.Context, query []float32, optFns ...func(o *CollectionRankOptions[K])) (RankedResult[K], error) {
	start := time.Now()
	opts := CollectionRankOptions[K]{
		RankOptions: RankOptions{
			Metric: distance.MetricCosine,
			TopN:   -1,
		},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	c.mu.RLock()
	result, considered, err := c.rankLocked(query, opts)
	c.mu.RUnlock()

	err = translateError(err)
	duration := time.Since(start)
	c.metrics.RecordRank(considered, duration, err)
	c.logger.LogRank(ctx, opts.Metric.String(), considered, len(result), err)

	if err != nil {
		return nil, err
	}

	return result, nil
}

// rankLocked does the scoring. Callers hold at least a read lock.
// The returned int is the number of candidates considered.
func (c *Collection[K, T]) rankLocked(query []float32, opts CollectionRankOptions[K]) (RankedResult[K], int, error) {
	if c.live.IsEmpty() {
		return nil, 0, ErrEmptyCandidates
	}

	if len(query) == 0 {
		return nil, 0, ErrEmptyVector
	}

	if len(query) != c.dimension {
		return nil, 0, &ErrDimensionMismatch{Expected: c.dimension, Actual: len(query)}
	}

	fn, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, 0, err
	}

	slots := c.candidateSlots(opts.Restrict, opts.Exclude)
	considered := int(slots.Cardinality())
	if considered == 0 {
		return nil, 0, ErrEmptyCandidates
	}

	limit := opts.TopN
	if limit < 0 || limit > considered {
		limit = considered
	}

	if limit == 0 {
		return RankedResult[K]{}, considered, nil
	}

	pq := queue.NewBounded(limit)
	for slot := range slots.All() {
		pq.Push(queue.Item{
			Slot:     int(slot),
			Distance: fn(query, c.entries[slot].vector),
		})
	}

	result := make(RankedResult[K], 0, limit)
	for _, item := range pq.Drain() {
		result = append(result, Match[K]{
			ID:       c.entries[item.Slot].id,
			Distance: item.Distance,
		})
	}

	return result, considered, nil
}

// candidateSlots resolves Restrict/Exclude ID lists into the effective slot
// set. Callers hold at least a read lock.
func (c *Collection[K, T]) candidateSlots(restrict, exclude []K) *idset.Set {
	if len(restrict) == 0 && len(exclude) == 0 {
		return c.live
	}

	eff := c.live.Clone()

	if len(restrict) > 0 {
		wanted := idset.New()
		for _, id := range restrict {
			if slot, ok := c.slots[id]; ok {
				wanted.Add(slot)
			}
		}
		eff.And(wanted)
	}

	if len(exclude) > 0 {
		dropped := idset.New()
		for _, id := range exclude {
			if slot, ok := c.slots[id]; ok {
				dropped.Add(slot)
			}
		}
		eff.AndNot(dropped)
	}

	return eff
}

// CollectionStats is a point-in-time summary of a collection.
type CollectionStats struct {
	// Count is the number of live members.
	Count int

	// Dimension is the vector dimensionality.
	Dimension int

	// Tombstones is the number of removed slots still held for ordering.
	Tombstones int
}

// Stats returns a snapshot of the collection's state.
func (c *Collection[K, T]) Stats() CollectionStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := int(c.live.Cardinality())

	return CollectionStats{
		Count:      count,
		Dimension:  c.dimension,
		Tombstones: len(c.entries) - count,
	}
}

