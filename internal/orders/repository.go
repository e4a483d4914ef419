package orders

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

// Repository persists orders, their lines and the order/table state machine.
// Multi-statement operations assume they run inside a caller transaction;
// rebind with WithTx.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*models.Order, error)
	CommittedLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error)
	CreateOrUpdate(ctx context.Context, tableID uuid.UUID, customerName string, lines []NormalizedLine, total decimal.Decimal, existingID *uuid.UUID) (*models.Order, bool, error)
	Cancel(ctx context.Context, orderID uuid.UUID) error
	Delete(ctx context.Context, orderID uuid.UUID) error
	Invoice(ctx context.Context, orderID uuid.UUID, number, customerName string, total decimal.Decimal) (*models.Invoice, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return &order, nil
}

// FindOpenByTable returns the table's open order, or nil when it has none.
func (r *repository) FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("table_id = ? AND status = ?", tableID, enums.OrderStatusOpen).
		First(&order).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading open order")
	}
	return &order, nil
}

func (r *repository) CommittedLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order lines")
	}
	return lines, nil
}

// CreateOrUpdate persists the order header and its full line set as one
// unit. On update the previous lines are deleted and reinserted wholesale;
// on create the table flips to occupied. Returns the order and whether it
// was newly created.
func (r *repository) CreateOrUpdate(ctx context.Context, tableID uuid.UUID, customerName string, lines []NormalizedLine, total decimal.Decimal, existingID *uuid.UUID) (*models.Order, bool, error) {
	if existingID != nil {
		order, err := r.update(ctx, *existingID, customerName, lines, total)
		return order, false, err
	}
	order, err := r.create(ctx, tableID, customerName, lines, total)
	return order, true, err
}

func (r *repository) create(ctx context.Context, tableID uuid.UUID, customerName string, lines []NormalizedLine, total decimal.Decimal) (*models.Order, error) {
	order := &models.Order{
		TableID:      tableID,
		CustomerName: customerName,
		Status:       enums.OrderStatusOpen,
		Total:        total,
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if db.IsUniqueViolation(err, "orders.table_id") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "table already has an open order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
	}
	if err := r.insertLines(ctx, order.ID, lines); err != nil {
		return nil, err
	}
	if err := r.setTableStatus(ctx, tableID, enums.TableStatusOccupied); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, order.ID)
}

func (r *repository) update(ctx context.Context, orderID uuid.UUID, customerName string, lines []NormalizedLine, total decimal.Decimal) (*models.Order, error) {
	order, err := r.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open")
	}

	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"customer_name": customerName,
			"total":         total,
			"updated_at":    time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order header")
	}

	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting order lines")
	}
	if err := r.insertLines(ctx, orderID, lines); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, orderID)
}

func (r *repository) insertLines(ctx context.Context, orderID uuid.UUID, lines []NormalizedLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.OrderLine, len(lines))
	for i, line := range lines {
		rows[i] = models.OrderLine{
			OrderID:    orderID,
			ProductID:  line.ProductID,
			MenuItemID: line.MenuItemID,
			VariantID:  line.VariantID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Subtotal:   line.Subtotal,
			Source:     line.Source,
		}
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting order lines")
	}
	return nil
}

// Cancel removes an open order and frees its table. Terminal orders cannot
// be cancelled.
func (r *repository) Cancel(ctx context.Context, orderID uuid.UUID) error {
	order, err := r.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != enums.OrderStatusOpen {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open")
	}
	return r.remove(ctx, order)
}

// Delete removes the order unconditionally. Used by the confirmation
// compensation path, where the order was created moments ago.
func (r *repository) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := r.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	return r.remove(ctx, order)
}

func (r *repository) remove(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", order.ID).Delete(&models.OrderLine{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting order lines")
	}
	if err := r.db.WithContext(ctx).Where("id = ?", order.ID).Delete(&models.Order{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting order")
	}
	return r.setTableStatus(ctx, order.TableID, enums.TableStatusFree)
}

// Invoice closes an open order: inserts the immutable invoice row, stamps
// the close time and frees the table.
func (r *repository) Invoice(ctx context.Context, orderID uuid.UUID, number, customerName string, total decimal.Decimal) (*models.Invoice, error) {
	order, err := r.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open")
	}

	invoice := &models.Invoice{
		OrderID:      orderID,
		Number:       number,
		CustomerName: customerName,
		Total:        total,
	}
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		if db.IsUniqueViolation(err, "invoices.number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "invoice number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating invoice")
	}

	now := time.Now().UTC()
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":     enums.OrderStatusClosed,
			"closed_at":  now,
			"updated_at": now,
		}).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "closing order")
	}

	if err := r.setTableStatus(ctx, order.TableID, enums.TableStatusFree); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *repository) setTableStatus(ctx context.Context, tableID uuid.UUID, status enums.TableStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.DiningTable{}).
		Where("id = ?", tableID).
		Update("status", status)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating table status")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
	}
	return nil
}
