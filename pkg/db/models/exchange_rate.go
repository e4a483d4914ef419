package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExchangeRate stores the daily USD to VES rate, one row per date.
type ExchangeRate struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Date      string          `gorm:"column:date;not null;uniqueIndex"`
	Rate      decimal.Decimal `gorm:"column:rate;type:numeric;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *ExchangeRate) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
