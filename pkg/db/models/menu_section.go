package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuSection groups menu items for display ordering.
type MenuSection struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name        string     `gorm:"column:name;not null;uniqueIndex"`
	Description *string    `gorm:"column:description"`
	Position    int        `gorm:"column:position;not null;default:0"`
	Active      bool       `gorm:"column:active;not null;default:true"`
	Items       []MenuItem `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *MenuSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
