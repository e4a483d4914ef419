package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is written once per order at invoicing time and never mutated.
// Its creation closes the order and frees the table.
type Invoice struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	Number       string          `gorm:"column:number;not null;uniqueIndex"`
	CustomerName string          `gorm:"column:customer_name;not null"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
