package inventory

import (
	"sort"

	"github.com/google/uuid"
)

// ChangeSet maps product ids to signed stock deltas. Positive means consume
// stock, negative means return it. It is never persisted; one instance lives
// for the duration of a single confirmation or cancellation.
type ChangeSet map[uuid.UUID]int

// Add accumulates a delta for the product, dropping the entry when the
// accumulated delta reaches zero.
func (c ChangeSet) Add(productID uuid.UUID, delta int) {
	next := c[productID] + delta
	if next == 0 {
		delete(c, productID)
		return
	}
	c[productID] = next
}

// IsEmpty reports whether the set carries no deltas.
func (c ChangeSet) IsEmpty() bool {
	return len(c) == 0
}

// Increases returns the subset of deltas that consume stock.
func (c ChangeSet) Increases() ChangeSet {
	out := ChangeSet{}
	for id, delta := range c {
		if delta > 0 {
			out[id] = delta
		}
	}
	return out
}

// Invert returns the set with every delta negated. Cancelling an order
// returns its committed quantities by inverting the committed set.
func (c ChangeSet) Invert() ChangeSet {
	out := make(ChangeSet, len(c))
	for id, delta := range c {
		out[id] = -delta
	}
	return out
}

// sortedIDs returns the product ids in a stable order so batch errors and
// writes are deterministic.
func (c ChangeSet) sortedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
