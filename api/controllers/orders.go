package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comanda-pos/comanda-backend/api/responses"
	"github.com/comanda-pos/comanda-backend/api/validators"
	"github.com/comanda-pos/comanda-backend/internal/orders"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
	"github.com/comanda-pos/comanda-backend/pkg/logger"
)

type orderLineRequest struct {
	ProductID  *uuid.UUID       `json:"product_id,omitempty"`
	MenuItemID *uuid.UUID       `json:"menu_item_id,omitempty"`
	VariantID  *uuid.UUID       `json:"variant_id,omitempty"`
	Quantity   int              `json:"quantity" validate:"required,gt=0"`
	Subtotal   *decimal.Decimal `json:"subtotal,omitempty"`
}

type orderConfirmRequest struct {
	TableID      uuid.UUID          `json:"table_id" validate:"required"`
	CustomerName string             `json:"customer_name"`
	OrderID      *uuid.UUID         `json:"order_id,omitempty"`
	Lines        []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r orderConfirmRequest) toInput() orders.ConfirmInput {
	lines := make([]orders.LineRequest, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, orders.LineRequest{
			ProductID:  l.ProductID,
			MenuItemID: l.MenuItemID,
			VariantID:  l.VariantID,
			Quantity:   l.Quantity,
			Subtotal:   l.Subtotal,
		})
	}
	return orders.ConfirmInput{
		TableID:      r.TableID,
		CustomerName: r.CustomerName,
		OrderID:      r.OrderID,
		Lines:        lines,
	}
}

type orderInvoiceRequest struct {
	Number string `json:"number"`
}

// OrderConfirm creates or re-confirms the open order for a table.
func OrderConfirm(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		var payload orderConfirmRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Confirm(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.URLParamUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderForTable returns the open order on a table, or a NOT_FOUND error when
// the table is free.
func OrderForTable(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		tableID, err := validators.URLParamUUID(r, "tableId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.OpenForTable(r.Context(), tableID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no open order for table"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderCancel removes an open order and returns its stock.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.URLParamUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Cancel(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

// OrderInvoice closes an open order and issues its invoice. An empty number
// lets the sequence assign the next one.
func OrderInvoice(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.URLParamUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invoice, err := svc.Invoice(r.Context(), id, payload.Number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}
