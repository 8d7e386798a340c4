package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kvitkova/kvitkova-backend/api/middleware"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
)

// actorFromRequest resolves the authenticated profile id and role seeded by
// the auth middleware. The profile id doubles as the shop id for sellers.
func actorFromRequest(r *http.Request) (uuid.UUID, enums.ProfileRole, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	return id, enums.ProfileRole(middleware.RoleFromContext(r.Context())), nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
