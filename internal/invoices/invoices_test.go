package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/config"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:invoices_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Invoice{}, &models.OrderLine{}))
	return db
}

func seedInvoice(t *testing.T, db *gorm.DB, number, customer string) *models.Invoice {
	t.Helper()
	invoice := &models.Invoice{
		OrderID:      uuid.New(),
		Number:       number,
		CustomerName: customer,
		Total:        decimal.NewFromFloat(10),
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func TestSequenceCountsPerDay(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	seq := NewSequence(config.InvoiceConfig{NumberPrefix: "INV"})
	day := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	err := db.Transaction(func(tx *gorm.DB) error {
		number, err := seq.Next(ctx, tx, day)
		require.NoError(t, err)
		require.Equal(t, "INV-20260314-0001", number)
		return nil
	})
	require.NoError(t, err)

	seedInvoice(t, db, "INV-20260314-0001", "Maria")
	seedInvoice(t, db, "INV-20260313-0007", "Jose")

	err = db.Transaction(func(tx *gorm.DB) error {
		number, err := seq.Next(ctx, tx, day)
		require.NoError(t, err)
		require.Equal(t, "INV-20260314-0002", number)

		// a different day starts its own sequence
		number, err = seq.Next(ctx, tx, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Equal(t, "INV-20260315-0001", number)
		return nil
	})
	require.NoError(t, err)
}

func TestSearchFilters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	svc, err := NewService(db)
	require.NoError(t, err)

	seedInvoice(t, db, "INV-20260314-0001", "Maria Perez")
	seedInvoice(t, db, "INV-20260314-0002", "Jose Gomez")

	results, err := svc.Search(ctx, SearchInput{Customer: "maria"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "INV-20260314-0001", results[0].Number)

	results, err = svc.Search(ctx, SearchInput{Number: "0002"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Jose Gomez", results[0].CustomerName)

	results, err = svc.Search(ctx, SearchInput{})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestGetReturnsLineBreakdown(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	svc, err := NewService(db)
	require.NoError(t, err)

	invoice := seedInvoice(t, db, "INV-20260314-0003", "Rosa")
	line := models.OrderLine{
		OrderID:   invoice.OrderID,
		Name:      "Cachapa",
		Quantity:  2,
		UnitPrice: decimal.NewFromFloat(5),
		Subtotal:  decimal.NewFromFloat(10),
		Source:    "product",
	}
	require.NoError(t, db.Create(&line).Error)

	detail, err := svc.Get(ctx, invoice.ID)
	require.NoError(t, err)
	require.Equal(t, invoice.Number, detail.Invoice.Number)
	require.Len(t, detail.Lines, 1)
	require.Equal(t, "Cachapa", detail.Lines[0].Name)

	_, err = svc.Get(ctx, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
