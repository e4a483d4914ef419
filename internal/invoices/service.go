package invoices

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

// SearchInput filters the invoice list. Zero values mean no filter.
type SearchInput struct {
	Number   string
	Customer string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Detail is an invoice together with the closed order's line breakdown.
type Detail struct {
	Invoice models.Invoice     `json:"invoice"`
	Lines   []models.OrderLine `json:"lines"`
}

// Service exposes read access to issued invoices. Invoices are written only
// by the order service at invoicing time.
type Service interface {
	Search(ctx context.Context, input SearchInput) ([]models.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*Detail, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the invoice read service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db}, nil
}

func (s *service) Search(ctx context.Context, input SearchInput) ([]models.Invoice, error) {
	query := s.db.WithContext(ctx).Model(&models.Invoice{})
	if input.Number != "" {
		query = query.Where("number LIKE ?", "%"+input.Number+"%")
	}
	if input.Customer != "" {
		query = query.Where("customer_name LIKE ?", "%"+input.Customer+"%")
	}
	if input.DateFrom != nil {
		query = query.Where("created_at >= ?", input.DateFrom)
	}
	if input.DateTo != nil {
		query = query.Where("created_at < ?", input.DateTo)
	}

	var invoices []models.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "searching invoices")
	}
	return invoices, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading invoice")
	}

	var lines []models.OrderLine
	err = s.db.WithContext(ctx).
		Where("order_id = ?", invoice.OrderID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading invoice lines")
	}
	return &Detail{Invoice: invoice, Lines: lines}, nil
}
