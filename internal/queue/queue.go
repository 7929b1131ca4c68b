// Package queue provides the bounded result collector used during ranking.
//
// This is an internal package - external users receive plain sorted slices.
package queue

// Item is a scored candidate held by the collector.
type Item struct {
	Slot     int     // Slot is the position of the candidate in the input order.
	Distance float32 // Distance is the priority of the item in the queue.
}

// after reports whether a sorts after b in the ascending result order:
// by Distance, ties broken by Slot.
func after(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}

	return a.Slot > b.Slot
}

// Bounded retains the limit best (lowest distance) items offered to it.
// It is a value-based binary max-heap ordered by (Distance, Slot), so the
// root is always the next item to evict and ties resolve to the earlier
// input position.
type Bounded struct {
	limit int
	items []Item
}

// NewBounded initializes a collector that keeps at most limit items.
// A limit of zero yields a collector that discards everything.
func NewBounded(limit int) *Bounded {
	if limit < 0 {
		limit = 0
	}

	return &Bounded{
		limit: limit,
		items: make([]Item, 0, limit),
	}
}

// Len returns the number of items currently retained.
func (b *Bounded) Len() int { return len(b.items) }

// Worst returns the retained item that would be evicted next.
func (b *Bounded) Worst() (Item, bool) {
	if len(b.items) == 0 {
		return Item{}, false
	}

	return b.items[0], true
}

// Push offers an item while maintaining the heap invariant. When the
// collector is full, the offered item replaces the current worst one if it
// sorts before it and is dropped otherwise.
func (b *Bounded) Push(item Item) {
	if b.limit == 0 {
		return
	}

	if len(b.items) < b.limit {
		b.items = append(b.items, item)
		b.siftUp(len(b.items) - 1)

		return
	}

	if after(b.items[0], item) {
		b.items[0] = item
		b.siftDown(0)
	}
}

// Drain removes all items and returns them ordered by ascending
// (Distance, Slot). The collector is empty afterwards and can be reused.
func (b *Bounded) Drain() []Item {
	out := make([]Item, len(b.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = b.popWorst()
	}

	return out
}

// Reset clears the collector for reuse.
func (b *Bounded) Reset() {
	b.items = b.items[:0]
}

// popWorst removes and returns the root while maintaining the heap invariant.
func (b *Bounded) popWorst() Item {
	n := len(b.items)
	root := b.items[0]
	last := b.items[n-1]
	b.items[n-1] = Item{}
	b.items = b.items[:n-1]

	if n-1 > 0 {
		b.items[0] = last
		b.siftDown(0)
	}

	return root
}

func (b *Bounded) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !after(b.items[i], b.items[p]) {
			return
		}

		b.items[i], b.items[p] = b.items[p], b.items[i]
		i = p
	}
}

func (b *Bounded) siftDown(i int) {
	n := len(b.items)

	for {
		l := 2*i + 1
		if l >= n {
			return
		}

		worst := l

		if r := l + 1; r < n && after(b.items[r], b.items[l]) {
			worst = r
		}

		if !after(b.items[worst], b.items[i]) {
			return
		}

		b.items[i], b.items[worst] = b.items[worst], b.items[i]
		i = worst
	}
}
