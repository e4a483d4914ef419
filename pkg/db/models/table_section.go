package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TableSection is a named dining area that groups tables.
type TableSection struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name      string        `gorm:"column:name;not null;uniqueIndex"`
	Tables    []DiningTable `gorm:"foreignKey:SectionID"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *TableSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
