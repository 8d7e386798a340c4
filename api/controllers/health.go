package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kvitkova/kvitkova-backend/api/responses"
	"github.com/kvitkova/kvitkova-backend/pkg/config"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kvitkova-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each backing dependency and reports the first failure.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kvitkova-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]pinger{
			"database": db,
			"redis":    cache,
		}
		for name, dep := range checks {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
