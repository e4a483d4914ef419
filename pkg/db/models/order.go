package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/enums"
)

// Order is the durable form of a table's cart. At most one open order may
// exist per table (partial unique index in the schema). Lines are replaced
// wholesale on every update.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	TableID      uuid.UUID         `gorm:"column:table_id;type:uuid;not null"`
	CustomerName string            `gorm:"column:customer_name;not null"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:'open'"`
	Total        decimal.Decimal   `gorm:"column:total;type:numeric;not null"`
	Lines        []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ClosedAt     *time.Time        `gorm:"column:closed_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
