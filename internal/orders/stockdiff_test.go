package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/comanda-pos/comanda-backend/pkg/enums"
)

func normalizedProductLine(id uuid.UUID, qty int) NormalizedLine {
	return NormalizedLine{ProductID: &id, Quantity: qty, Source: enums.LineSourceProduct}
}

func TestComputeStockDeltaNewOrder(t *testing.T) {
	t.Parallel()

	p := uuid.New()
	set := ComputeStockDelta(nil, []NormalizedLine{normalizedProductLine(p, 3)})
	require.Equal(t, 3, set[p])
	require.Len(t, set, 1)
}

func TestComputeStockDeltaIncreaseDecreaseRemoval(t *testing.T) {
	t.Parallel()

	up := uuid.New()
	down := uuid.New()
	gone := uuid.New()
	previous := map[uuid.UUID]int{up: 3, down: 5, gone: 2}

	set := ComputeStockDelta(previous, []NormalizedLine{
		normalizedProductLine(up, 5),
		normalizedProductLine(down, 1),
	})
	require.Equal(t, 2, set[up])
	require.Equal(t, -4, set[down])
	require.Equal(t, -2, set[gone])
}

func TestComputeStockDeltaOmitsZeroAndMenuLines(t *testing.T) {
	t.Parallel()

	p := uuid.New()
	menuItem := uuid.New()
	previous := map[uuid.UUID]int{p: 4}

	set := ComputeStockDelta(previous, []NormalizedLine{
		normalizedProductLine(p, 4),
		{MenuItemID: &menuItem, Quantity: 9, Source: enums.LineSourceMenu},
	})
	require.True(t, set.IsEmpty())
}

func TestComputeStockDeltaAccumulatesDuplicateRefs(t *testing.T) {
	t.Parallel()

	p := uuid.New()
	set := ComputeStockDelta(map[uuid.UUID]int{p: 1}, []NormalizedLine{
		normalizedProductLine(p, 2),
		normalizedProductLine(p, 3),
	})
	require.Equal(t, 4, set[p])
}
