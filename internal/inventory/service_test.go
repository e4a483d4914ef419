package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(testTxRunner{db: db}, NewRepository(db), NewLedger(db))
	require.NoError(t, err)
	return svc, db
}

func TestServiceCreateRejectsDuplicateName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{Name: "Queso", UnitPrice: decimal.NewFromFloat(4.5), Stock: 3})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateProductInput{Name: "Queso", UnitPrice: decimal.NewFromFloat(5), Stock: 1})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCreateValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateProductInput{
		{Name: "  ", UnitPrice: decimal.NewFromFloat(1), Stock: 0},
		{Name: "Cafe", UnitPrice: decimal.NewFromFloat(-1), Stock: 0},
		{Name: "Cafe", UnitPrice: decimal.NewFromFloat(1), Stock: -2},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestServiceDeleteBlockedByOrderLineRefs(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductInput{Name: "Malta", UnitPrice: decimal.NewFromFloat(2), Stock: 6})
	require.NoError(t, err)

	line := models.OrderLine{
		OrderID:   product.ID, // any uuid works, the guard only counts refs
		ProductID: &product.ID,
		Name:      product.Name,
		Quantity:  2,
		UnitPrice: product.UnitPrice,
		Subtotal:  decimal.NewFromFloat(4),
		Source:    enums.LineSourceProduct,
	}
	require.NoError(t, db.Create(&line).Error)

	err = svc.Delete(ctx, product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, db.Delete(&line).Error)
	require.NoError(t, svc.Delete(ctx, product.ID))
}

func TestServiceAdjustStockThroughLedger(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductInput{Name: "Papelon", UnitPrice: decimal.NewFromFloat(1.5), Stock: 4})
	require.NoError(t, err)

	updated, err := svc.AdjustStock(ctx, product.ID, 6)
	require.NoError(t, err)
	require.Equal(t, 10, updated.Stock)

	updated, err = svc.AdjustStock(ctx, product.ID, -10)
	require.NoError(t, err)
	require.Equal(t, 0, updated.Stock)

	_, err = svc.AdjustStock(ctx, product.ID, -1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
}
