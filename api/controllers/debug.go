package controllers

import (
	"net/http"

	"github.com/kvitkova/kvitkova-backend/api/responses"
	"github.com/kvitkova/kvitkova-backend/internal/listings"
	"github.com/kvitkova/kvitkova-backend/pkg/config"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
)

// DebugListings dumps a handful of raw listing rows plus a masked view of
// the runtime configuration. Meant for smoke checks against a fresh deploy.
func DebugListings(svc listings.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		sample, err := svc.DebugSample(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"listings": sample,
			"env":      maskedEnv(cfg),
		})
	}
}

func maskedEnv(cfg *config.Config) map[string]string {
	if cfg == nil {
		return nil
	}
	return map[string]string{
		"app_env":        cfg.App.Env,
		"app_port":       cfg.App.Port,
		"db_driver":      cfg.DB.Driver,
		"db_dsn":         maskSecret(cfg.DB.DSN),
		"redis_url":      maskSecret(cfg.Redis.URL),
		"jwt_secret":     maskSecret(cfg.JWT.Secret),
		"storage_bucket": cfg.Storage.BucketName,
		"maps_api_key":   maskSecret(cfg.GoogleMaps.APIKey),
	}
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "****"
}
