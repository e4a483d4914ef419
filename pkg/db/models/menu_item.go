package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem is a non-stock-tracked sellable belonging to a menu section.
type MenuItem struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	SectionID uuid.UUID         `gorm:"column:section_id;type:uuid;not null"`
	Name      string            `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal   `gorm:"column:unit_price;type:numeric;not null"`
	Available bool              `gorm:"column:available;not null;default:true"`
	Variants  []MenuItemVariant `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
