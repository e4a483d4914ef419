package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/comanda-pos/comanda-backend/api/responses"
	"github.com/comanda-pos/comanda-backend/api/validators"
	"github.com/comanda-pos/comanda-backend/internal/rates"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
	"github.com/comanda-pos/comanda-backend/pkg/logger"
)

type rateUpsertRequest struct {
	Date string          `json:"date" validate:"required"`
	Rate decimal.Decimal `json:"rate"`
}

type rateConvertRequest struct {
	Amount decimal.Decimal `json:"amount"`
	// To selects the target currency, "VES" or "USD".
	To string `json:"to" validate:"required,oneof=VES USD"`
}

// RateUpsert records the USD to VES rate for a calendar date.
func RateUpsert(svc rates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate service unavailable"))
			return
		}
		var payload rateUpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD"))
			return
		}
		rate, err := svc.Upsert(r.Context(), date, payload.Rate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rate)
	}
}

func RateList(svc rates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func RateLatest(svc rates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate service unavailable"))
			return
		}
		rate, err := svc.Latest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rate)
	}
}

// RateConvert converts an amount using the most recent recorded rate.
func RateConvert(svc rates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate service unavailable"))
			return
		}
		var payload rateConvertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var converted decimal.Decimal
		var err error
		switch payload.To {
		case "VES":
			converted, err = svc.ToVES(r.Context(), payload.Amount)
		case "USD":
			converted, err = svc.ToUSD(r.Context(), payload.Amount)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"amount":    payload.Amount,
			"converted": converted,
			"currency":  payload.To,
		})
	}
}
