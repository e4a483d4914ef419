package inventory

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

// StockShortage names the first product that cannot satisfy a requested
// stock increase. It travels as error details on INSUFFICIENT_STOCK.
type StockShortage struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
}

// Ledger is the only component allowed to mutate product stock. Apply runs
// the whole change set or none of it inside the caller's transaction; Check
// runs the same pre-check read-only.
type Ledger interface {
	Check(ctx context.Context, set ChangeSet) error
	Apply(ctx context.Context, tx *gorm.DB, set ChangeSet) error
}

type ledger struct {
	db *gorm.DB
}

// NewLedger builds a stock ledger bound to the provided DB.
func NewLedger(db *gorm.DB) Ledger {
	return &ledger{db: db}
}

// Check validates every positive delta against current stock without
// writing. Used before any order state is touched so a doomed confirmation
// never mutates the order.
func (l *ledger) Check(ctx context.Context, set ChangeSet) error {
	return precheck(ctx, l.db, set)
}

// Apply pre-checks the increases and then applies stock = stock - delta for
// every non-zero delta. The pre-check is the primary guard: relying on the
// schema's CHECK constraint alone would abort mid-batch with earlier rows
// already mutated.
func (l *ledger) Apply(ctx context.Context, tx *gorm.DB, set ChangeSet) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "stock ledger requires a transaction")
	}
	if set.IsEmpty() {
		return nil
	}
	if err := precheck(ctx, tx, set); err != nil {
		return err
	}
	for _, id := range set.sortedIDs() {
		delta := set[id]
		if delta == 0 {
			continue
		}
		result := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			UpdateColumn("stock", gorm.Expr("stock - ?", delta))
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "applying stock delta")
		}
		if result.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
	}
	return nil
}

func precheck(ctx context.Context, db *gorm.DB, set ChangeSet) error {
	for _, id := range set.sortedIDs() {
		delta := set[id]
		var product models.Product
		err := db.WithContext(ctx).Where("id = ?", id).First(&product).Error
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product stock")
		}
		if delta > 0 && product.Stock < delta {
			msg := fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
				product.Name, delta, product.Stock)
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, msg).WithDetails(StockShortage{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   delta,
				Available:   product.Stock,
			})
		}
	}
	return nil
}
