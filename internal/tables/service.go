package tables

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

// Service manages dining sections and tables. Table status itself is owned
// by the order flow; this service only guards against deleting a table that
// still has an open order.
type Service interface {
	ListSections(ctx context.Context) ([]models.TableSection, error)
	CreateSection(ctx context.Context, name string) (*models.TableSection, error)
	RenameSection(ctx context.Context, id uuid.UUID, name string) (*models.TableSection, error)
	DeleteSection(ctx context.Context, id uuid.UUID) error

	ListTables(ctx context.Context) ([]models.DiningTable, error)
	GetTable(ctx context.Context, id uuid.UUID) (*models.DiningTable, error)
	CreateTable(ctx context.Context, number int, sectionID uuid.UUID) (*models.DiningTable, error)
	UpdateTable(ctx context.Context, id uuid.UUID, number int, sectionID uuid.UUID) (*models.DiningTable, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
}

type service struct {
	db *gorm.DB
}

// NewService builds the tables service.
func NewService(conn *gorm.DB) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: conn}, nil
}

func (s *service) ListSections(ctx context.Context) ([]models.TableSection, error) {
	var sections []models.TableSection
	err := s.db.WithContext(ctx).
		Preload("Tables").
		Order("name ASC").
		Find(&sections).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing table sections")
	}
	return sections, nil
}

func (s *service) CreateSection(ctx context.Context, name string) (*models.TableSection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "section name required")
	}
	section := &models.TableSection{Name: name}
	if err := s.db.WithContext(ctx).Create(section).Error; err != nil {
		if db.IsUniqueViolation(err, "table_sections.name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a section with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating table section")
	}
	return section, nil
}

func (s *service) RenameSection(ctx context.Context, id uuid.UUID, name string) (*models.TableSection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "section name required")
	}
	result := s.db.WithContext(ctx).
		Model(&models.TableSection{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		if db.IsUniqueViolation(result.Error, "table_sections.name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a section with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "renaming table section")
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "section not found")
	}
	var section models.TableSection
	if err := s.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading table section")
	}
	return &section, nil
}

func (s *service) DeleteSection(ctx context.Context, id uuid.UUID) error {
	var tableCount int64
	err := s.db.WithContext(ctx).
		Model(&models.DiningTable{}).
		Where("section_id = ?", id).
		Count(&tableCount).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting section tables")
	}
	if tableCount > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "section still has tables")
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TableSection{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting table section")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "section not found")
	}
	return nil
}

func (s *service) ListTables(ctx context.Context) ([]models.DiningTable, error) {
	var tables []models.DiningTable
	err := s.db.WithContext(ctx).Order("number ASC").Find(&tables).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing tables")
	}
	return tables, nil
}

func (s *service) GetTable(ctx context.Context, id uuid.UUID) (*models.DiningTable, error) {
	var table models.DiningTable
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&table).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading table")
	}
	return &table, nil
}

func (s *service) CreateTable(ctx context.Context, number int, sectionID uuid.UUID) (*models.DiningTable, error) {
	if number <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table number must be positive")
	}
	if err := s.sectionExists(ctx, sectionID); err != nil {
		return nil, err
	}

	table := &models.DiningTable{Number: number, SectionID: sectionID, Status: enums.TableStatusFree}
	if err := s.db.WithContext(ctx).Create(table).Error; err != nil {
		if db.IsUniqueViolation(err, "dining_tables.number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a table with that number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating table")
	}
	return table, nil
}

func (s *service) UpdateTable(ctx context.Context, id uuid.UUID, number int, sectionID uuid.UUID) (*models.DiningTable, error) {
	if number <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table number must be positive")
	}
	if err := s.sectionExists(ctx, sectionID); err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Model(&models.DiningTable{}).
		Where("id = ?", id).
		Updates(map[string]any{"number": number, "section_id": sectionID})
	if result.Error != nil {
		if db.IsUniqueViolation(result.Error, "dining_tables.number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a table with that number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating table")
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
	}
	return s.GetTable(ctx, id)
}

func (s *service) DeleteTable(ctx context.Context, id uuid.UUID) error {
	var openOrders int64
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("table_id = ? AND status = ?", id, enums.OrderStatusOpen).
		Count(&openOrders).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting open orders")
	}
	if openOrders > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "table has an open order")
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DiningTable{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting table")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
	}
	return nil
}

func (s *service) sectionExists(ctx context.Context, id uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.TableSection{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking section")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "section not found")
	}
	return nil
}
