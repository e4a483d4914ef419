package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/comanda-pos/comanda-backend/internal/catalog"
	"github.com/comanda-pos/comanda-backend/internal/inventory"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
)

// Normalizer validates and prices raw line requests against the catalog.
// It performs no writes; the stock comparison here is an early sanity check
// against recorded stock, not a reservation.
type Normalizer struct {
	catalog catalog.Reader
}

// NewNormalizer builds a normalizer over the provided catalog reader.
func NewNormalizer(reader catalog.Reader) *Normalizer {
	return &Normalizer{catalog: reader}
}

// Normalize resolves every request to a priced line and returns the lines
// with their total, both rounded to 2 decimals.
func (n *Normalizer) Normalize(ctx context.Context, requests []LineRequest) ([]NormalizedLine, decimal.Decimal, error) {
	if len(requests) == 0 {
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line")
	}

	lines := make([]NormalizedLine, 0, len(requests))
	total := decimal.Zero
	for i, req := range requests {
		if req.Quantity <= 0 {
			msg := fmt.Sprintf("line %d: quantity must be a positive integer", i+1)
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, msg)
		}

		res, err := n.catalog.Resolve(ctx, req.ref())
		if err != nil {
			return nil, decimal.Zero, err
		}

		if res.Source == enums.LineSourceProduct && res.Stock != nil && req.Quantity > *res.Stock {
			msg := fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
				res.Name, req.Quantity, *res.Stock)
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeInsufficientStock, msg).
				WithDetails(inventory.StockShortage{
					ProductID:   *req.ProductID,
					ProductName: res.Name,
					Requested:   req.Quantity,
					Available:   *res.Stock,
				})
		}

		subtotal := res.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)
		if req.Subtotal != nil {
			subtotal = req.Subtotal.Round(2)
		}

		lines = append(lines, NormalizedLine{
			ProductID:  req.ProductID,
			MenuItemID: req.MenuItemID,
			VariantID:  req.VariantID,
			Name:       res.Name,
			Quantity:   req.Quantity,
			UnitPrice:  res.UnitPrice,
			Subtotal:   subtotal,
			Source:     res.Source,
		})
		total = total.Add(subtotal)
	}

	return lines, total.Round(2), nil
}
