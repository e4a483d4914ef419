package controllers

import (
	"net/http"

	"github.com/comanda-pos/comanda-backend/api/responses"
	"github.com/comanda-pos/comanda-backend/pkg/config"
	"github.com/comanda-pos/comanda-backend/pkg/db"
	pkgerrors "github.com/comanda-pos/comanda-backend/pkg/errors"
	"github.com/comanda-pos/comanda-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Comanda-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Comanda-Env", cfg.App.Env)
		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database unavailable"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
