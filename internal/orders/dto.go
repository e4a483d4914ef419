package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comanda-pos/comanda-backend/internal/catalog"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
)

// LineRequest is one raw cart line as submitted by the client. Either
// ProductID or MenuItemID must be set. Subtotal, when supplied, is accepted
// verbatim after rounding; otherwise it is computed from the resolved price.
type LineRequest struct {
	ProductID  *uuid.UUID
	MenuItemID *uuid.UUID
	VariantID  *uuid.UUID
	Quantity   int
	Subtotal   *decimal.Decimal
}

func (r LineRequest) ref() catalog.Ref {
	return catalog.Ref{
		ProductID:  r.ProductID,
		MenuItemID: r.MenuItemID,
		VariantID:  r.VariantID,
	}
}

// NormalizedLine is a validated, priced line ready for persistence.
type NormalizedLine struct {
	ProductID  *uuid.UUID
	MenuItemID *uuid.UUID
	VariantID  *uuid.UUID
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
	Source     enums.LineSource
}

// ConfirmInput is the orchestrator's request: a table's full candidate cart.
// OrderID is set when re-confirming an existing open order.
type ConfirmInput struct {
	TableID      uuid.UUID
	CustomerName string
	OrderID      *uuid.UUID
	Lines        []LineRequest
}

// ConfirmResult reports the durable outcome of a confirmation.
type ConfirmResult struct {
	OrderID uuid.UUID
	Total   decimal.Decimal
	Created bool
}
