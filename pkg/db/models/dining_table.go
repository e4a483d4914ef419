package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/enums"
)

// DiningTable is a physical table. Its status flips to occupied exactly when
// an order for it becomes open and back to free when that order leaves open.
type DiningTable struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Number    int               `gorm:"column:number;not null;uniqueIndex"`
	SectionID uuid.UUID         `gorm:"column:section_id;type:uuid;not null"`
	Status    enums.TableStatus `gorm:"column:status;not null;default:'free'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *DiningTable) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
