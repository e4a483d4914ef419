package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/internal/catalog"
	"github.com/comanda-pos/comanda-backend/internal/inventory"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.TableSection{},
		&models.DiningTable{},
		&models.Product{},
		&models.MenuSection{},
		&models.MenuItem{},
		&models.MenuItemVariant{},
		&models.Order{},
		&models.OrderLine{},
		&models.Invoice{},
	))
	// AutoMigrate cannot express the partial index the real schema carries.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_open_table ON orders (table_id) WHERE status = 'open'`).Error
	require.NoError(t, err)
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

type stubNumberer struct {
	calls int
}

func (s *stubNumberer) Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error) {
	s.calls++
	return "INV-20260101-0001", nil
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		testTxRunner{db: db},
		NewRepository(db),
		NewNormalizer(catalog.NewReader(db)),
		inventory.NewLedger(db),
		&stubNumberer{},
		nil,
		nil,
	)
	require.NoError(t, err)
	return svc
}

func seedTable(t *testing.T, db *gorm.DB, number int) *models.DiningTable {
	t.Helper()
	section := &models.TableSection{Name: "Salon " + uuid.NewString()[:8]}
	require.NoError(t, db.Create(section).Error)
	table := &models.DiningTable{Number: number, SectionID: section.ID, Status: enums.TableStatusFree}
	require.NoError(t, db.Create(table).Error)
	return table
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, UnitPrice: decimal.NewFromFloat(price), Stock: stock}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64) *models.MenuItem {
	t.Helper()
	section := &models.MenuSection{Name: "Menu " + uuid.NewString()[:8]}
	require.NoError(t, db.Create(section).Error)
	item := &models.MenuItem{SectionID: section.ID, Name: name, UnitPrice: decimal.NewFromFloat(price), Available: true}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedVariant(t *testing.T, db *gorm.DB, itemID uuid.UUID, name string, price float64) *models.MenuItemVariant {
	t.Helper()
	variant := &models.MenuItemVariant{MenuItemID: itemID, Name: name, UnitPrice: decimal.NewFromFloat(price)}
	require.NoError(t, db.Create(variant).Error)
	return variant
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.Stock
}

func tableStatus(t *testing.T, db *gorm.DB, id uuid.UUID) enums.TableStatus {
	t.Helper()
	var table models.DiningTable
	require.NoError(t, db.First(&table, "id = ?", id).Error)
	return table.Status
}

func orderCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	return count
}

func productLine(id uuid.UUID, qty int) LineRequest {
	return LineRequest{ProductID: &id, Quantity: qty}
}

func menuLine(id uuid.UUID, qty int) LineRequest {
	return LineRequest{MenuItemID: &id, Quantity: qty}
}
