package catalog

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

// Ref identifies a sellable: either a physical product or a menu item with
// an optional variant. Exactly one of ProductID and MenuItemID must be set.
type Ref struct {
	ProductID  *uuid.UUID
	MenuItemID *uuid.UUID
	VariantID  *uuid.UUID
}

// IsProduct reports whether the ref points at a stock-tracked product.
func (r Ref) IsProduct() bool {
	return r.ProductID != nil
}

// Resolution is the priced read-model for a ref. Stock is nil for menu
// items, which are never stock-tracked.
type Resolution struct {
	Name      string
	UnitPrice decimal.Decimal
	Stock     *int
	Source    enums.LineSource
}

// Reader resolves line refs to prices and stock levels. Read-only.
type Reader interface {
	WithTx(tx *gorm.DB) Reader
	Resolve(ctx context.Context, ref Ref) (*Resolution, error)
}

type reader struct {
	db *gorm.DB
}

// NewReader builds a catalog reader bound to the provided DB.
func NewReader(db *gorm.DB) Reader {
	return &reader{db: db}
}

func (r *reader) WithTx(tx *gorm.DB) Reader {
	if tx == nil {
		return r
	}
	return &reader{db: tx}
}

func (r *reader) Resolve(ctx context.Context, ref Ref) (*Resolution, error) {
	switch {
	case ref.ProductID != nil && ref.MenuItemID != nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line ref must name a product or a menu item, not both")
	case ref.ProductID != nil:
		return r.resolveProduct(ctx, *ref.ProductID)
	case ref.MenuItemID != nil:
		return r.resolveMenuItem(ctx, *ref.MenuItemID, ref.VariantID)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line ref must name a product or a menu item")
	}
}

func (r *reader) resolveProduct(ctx context.Context, id uuid.UUID) (*Resolution, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	stock := product.Stock
	return &Resolution{
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Stock:     &stock,
		Source:    enums.LineSourceProduct,
	}, nil
}

func (r *reader) resolveMenuItem(ctx context.Context, itemID uuid.UUID, variantID *uuid.UUID) (*Resolution, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading menu item")
	}

	name := item.Name
	price := item.UnitPrice
	if variantID != nil {
		var variant models.MenuItemVariant
		err := r.db.WithContext(ctx).
			Where("id = ? AND menu_item_id = ?", *variantID, itemID).
			First(&variant).Error
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item variant not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading menu item variant")
		}
		name = item.Name + " (" + variant.Name + ")"
		price = variant.UnitPrice
	}

	return &Resolution{
		Name:      name,
		UnitPrice: price,
		Source:    enums.LineSourceMenu,
	}, nil
}
