package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/enums"
)

// OrderLine is a priced line snapshot owned by its order. Exactly one of
// ProductID and MenuItemID is set; VariantID may accompany MenuItemID.
// Unit price is captured at time of sale.
type OrderLine struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrderID    uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  *uuid.UUID       `gorm:"column:product_id;type:uuid"`
	MenuItemID *uuid.UUID       `gorm:"column:menu_item_id;type:uuid"`
	VariantID  *uuid.UUID       `gorm:"column:variant_id;type:uuid"`
	Name       string           `gorm:"column:name;not null"`
	Quantity   int              `gorm:"column:quantity;not null;check:quantity > 0"`
	UnitPrice  decimal.Decimal  `gorm:"column:unit_price;type:numeric;not null"`
	Subtotal   decimal.Decimal  `gorm:"column:subtotal;type:numeric;not null"`
	Source     enums.LineSource `gorm:"column:source;not null"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
