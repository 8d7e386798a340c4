package controllers

import (
	"net/http"

	"github.com/kvitkova/kvitkova-backend/api/middleware"
	"github.com/kvitkova/kvitkova-backend/api/responses"
	"github.com/kvitkova/kvitkova-backend/internal/profiles"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
)

// AdminListPendingSellers returns shop applications awaiting review, oldest
// application first.
func AdminListPendingSellers(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		rows, err := svc.ListPendingShops(r.Context(), middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// AdminApproveSeller promotes a pending application to a live seller shop.
func AdminApproveSeller(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		profileID, err := pathUUID(r, "profileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.ApproveShop(r.Context(), middleware.RoleFromContext(r.Context()), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// AdminRejectSeller declines a pending application.
func AdminRejectSeller(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		profileID, err := pathUUID(r, "profileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.RejectShop(r.Context(), middleware.RoleFromContext(r.Context()), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}
