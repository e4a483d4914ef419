package orders

import (
	"github.com/google/uuid"

	"github.com/comanda-pos/comanda-backend/internal/inventory"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
)

// ComputeStockDelta diffs the previously committed per-product quantities
// against the newly normalized lines. For products in the new set the delta
// is new minus old; products that vanished contribute minus their old
// quantity. Menu-sourced lines never participate and zero deltas are
// omitted. Pure computation, no failure modes.
func ComputeStockDelta(previous map[uuid.UUID]int, lines []NormalizedLine) inventory.ChangeSet {
	next := quantitiesByProduct(lines)

	set := inventory.ChangeSet{}
	for id, qty := range next {
		set.Add(id, qty-previous[id])
	}
	for id, qty := range previous {
		if _, stillPresent := next[id]; !stillPresent {
			set.Add(id, -qty)
		}
	}
	return set
}

// quantitiesByProduct folds product-sourced lines into a per-product
// quantity map. Duplicate product refs across lines accumulate.
func quantitiesByProduct(lines []NormalizedLine) map[uuid.UUID]int {
	out := map[uuid.UUID]int{}
	for _, line := range lines {
		if line.Source != enums.LineSourceProduct || line.ProductID == nil {
			continue
		}
		out[*line.ProductID] += line.Quantity
	}
	return out
}
