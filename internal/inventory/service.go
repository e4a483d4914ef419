package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes product catalog management. All stock mutation funnels
// through the Ledger, including manual adjustments.
type Service interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.Product, error)
}

// CreateProductInput captures a new product.
type CreateProductInput struct {
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
}

// UpdateProductInput captures the mutable product fields. Stock is excluded;
// use AdjustStock.
type UpdateProductInput struct {
	Name      string
	UnitPrice decimal.Decimal
}

type service struct {
	tx     txRunner
	repo   Repository
	ledger Ledger
}

// NewService builds the product service.
func NewService(tx txRunner, repo Repository, ledger Ledger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	return &service{tx: tx, repo: repo, ledger: ledger}, nil
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		Name:      name,
		UnitPrice: input.UnitPrice.Round(2),
		Stock:     input.Stock,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "products.name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	product := &models.Product{ID: id, Name: name, UnitPrice: input.UnitPrice.Round(2)}
	if err := s.repo.Update(ctx, product); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "products.name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountOrderLineRefs(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking product references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by order lines")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	return nil
}

// AdjustStock moves stock by the signed delta through the ledger so a manual
// correction can never drive stock negative.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.Product, error) {
	if delta == 0 {
		return s.repo.FindByID(ctx, id)
	}
	// A positive adjustment adds stock, which the ledger expresses as a
	// negative delta.
	set := ChangeSet{id: -delta}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.ledger.Apply(ctx, tx, set)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
