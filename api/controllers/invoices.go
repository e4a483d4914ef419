package controllers

import (
	"net/http"
	"strings"

	"github.com/comanda-pos/comanda-backend/api/responses"
	"github.com/comanda-pos/comanda-backend/api/validators"
	"github.com/comanda-pos/comanda-backend/internal/invoices"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
	"github.com/comanda-pos/comanda-backend/pkg/logger"
)

// InvoiceSearch filters issued invoices by number, customer and date range.
func InvoiceSearch(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		from, err := validators.ParseQueryDate(r, "date_from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "date_to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := invoices.SearchInput{
			Number:   strings.TrimSpace(r.URL.Query().Get("number")),
			Customer: strings.TrimSpace(r.URL.Query().Get("customer")),
			DateFrom: from,
			DateTo:   to,
		}

		list, err := svc.Search(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// InvoiceDetail returns one invoice with its order's line breakdown.
func InvoiceDetail(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}
		id, err := validators.URLParamUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
