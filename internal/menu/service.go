package menu

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

// SectionInput captures a menu section create or update.
type SectionInput struct {
	Name        string
	Description *string
	Position    int
	Active      bool
}

// ItemInput captures a menu item create or update.
type ItemInput struct {
	SectionID uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Available bool
}

// VariantInput captures a variant create or update.
type VariantInput struct {
	Name      string
	UnitPrice decimal.Decimal
}

// Service manages the menu: sections, items and their variants.
type Service interface {
	ListSections(ctx context.Context) ([]models.MenuSection, error)
	CreateSection(ctx context.Context, input SectionInput) (*models.MenuSection, error)
	UpdateSection(ctx context.Context, id uuid.UUID, input SectionInput) (*models.MenuSection, error)
	DeleteSection(ctx context.Context, id uuid.UUID) error

	GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	CreateItem(ctx context.Context, input ItemInput) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	AddVariant(ctx context.Context, itemID uuid.UUID, input VariantInput) (*models.MenuItemVariant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error
}

type service struct {
	db *gorm.DB
}

// NewService builds the menu service.
func NewService(conn *gorm.DB) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: conn}, nil
}

func (s *service) ListSections(ctx context.Context) ([]models.MenuSection, error) {
	var sections []models.MenuSection
	err := s.db.WithContext(ctx).
		Preload("Items.Variants").
		Order("position ASC, name ASC").
		Find(&sections).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing menu sections")
	}
	return sections, nil
}

func (s *service) CreateSection(ctx context.Context, input SectionInput) (*models.MenuSection, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "section name required")
	}
	section := &models.MenuSection{
		Name:        name,
		Description: input.Description,
		Position:    input.Position,
		Active:      input.Active,
	}
	if err := s.db.WithContext(ctx).Create(section).Error; err != nil {
		if db.IsUniqueViolation(err, "menu_sections.name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a menu section with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating menu section")
	}
	return section, nil
}

func (s *service) UpdateSection(ctx context.Context, id uuid.UUID, input SectionInput) (*models.MenuSection, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "section name required")
	}
	result := s.db.WithContext(ctx).
		Model(&models.MenuSection{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        name,
			"description": input.Description,
			"position":    input.Position,
			"active":      input.Active,
		})
	if result.Error != nil {
		if db.IsUniqueViolation(result.Error, "menu_sections.name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a menu section with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating menu section")
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu section not found")
	}
	var section models.MenuSection
	if err := s.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading menu section")
	}
	return &section, nil
}

func (s *service) DeleteSection(ctx context.Context, id uuid.UUID) error {
	var itemCount int64
	err := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("section_id = ?", id).
		Count(&itemCount).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting section items")
	}
	if itemCount > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "menu section still has items")
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuSection{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting menu section")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "menu section not found")
	}
	return nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading menu item")
	}
	return &item, nil
}

func (s *service) CreateItem(ctx context.Context, input ItemInput) (*models.MenuItem, error) {
	if err := validateItem(input); err != nil {
		return nil, err
	}
	if err := s.sectionExists(ctx, input.SectionID); err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		SectionID: input.SectionID,
		Name:      strings.TrimSpace(input.Name),
		UnitPrice: input.UnitPrice.Round(2),
		Available: input.Available,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating menu item")
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*models.MenuItem, error) {
	if err := validateItem(input); err != nil {
		return nil, err
	}
	if err := s.sectionExists(ctx, input.SectionID); err != nil {
		return nil, err
	}
	result := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"section_id": input.SectionID,
			"name":       strings.TrimSpace(input.Name),
			"unit_price": input.UnitPrice.Round(2),
			"available":  input.Available,
		})
	if result.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "updating menu item")
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return s.GetItem(ctx, id)
}

// DeleteItem removes the item and its variants. Items referenced by order
// lines are kept for invoice history.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	var refs int64
	err := s.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("menu_item_id = ?", id).
		Count(&refs).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking menu item references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "menu item is referenced by order lines")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", id).Delete(&models.MenuItemVariant{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting item variants")
		}
		result := tx.Where("id = ?", id).Delete(&models.MenuItem{})
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting menu item")
		}
		if result.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil
	})
}

func (s *service) AddVariant(ctx context.Context, itemID uuid.UUID, input VariantInput) (*models.MenuItemVariant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant name required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	variant := &models.MenuItemVariant{
		MenuItemID: itemID,
		Name:       name,
		UnitPrice:  input.UnitPrice.Round(2),
	}
	if err := s.db.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating variant")
	}
	return variant, nil
}

func (s *service) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	var refs int64
	err := s.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("variant_id = ?", id).
		Count(&refs).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking variant references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "variant is referenced by order lines")
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItemVariant{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "deleting variant")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return nil
}

func validateItem(input ItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if input.SectionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "section id required")
	}
	return nil
}

func (s *service) sectionExists(ctx context.Context, id uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.MenuSection{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking menu section")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "menu section not found")
	}
	return nil
}
