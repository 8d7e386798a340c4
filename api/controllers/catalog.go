package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kvitkova/kvitkova-backend/api/responses"
	"github.com/kvitkova/kvitkova-backend/api/validators"
	"github.com/kvitkova/kvitkova-backend/internal/listings"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
)

const maxCatalogLimit = 100

func catalogFiltersFromQuery(r *http.Request) (listings.CatalogFilters, error) {
	filters := listings.CatalogFilters{
		City: validators.SanitizeString(r.URL.Query().Get("city"), 120),
		Name: validators.SanitizeString(r.URL.Query().Get("name"), 120),
		Type: validators.SanitizeString(r.URL.Query().Get("type"), 120),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("max_price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return listings.CatalogFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "max_price must be numeric").WithDetails(map[string]any{"field": "max_price"})
		}
		if price.IsNegative() {
			return listings.CatalogFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "max_price must not be negative").WithDetails(map[string]any{"field": "max_price"})
		}
		filters.MaxPrice = &price
	}

	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxCatalogLimit)
	if err != nil {
		return listings.CatalogFilters{}, err
	}
	filters.Limit = limit

	return filters, nil
}

// Catalog serves one buyer-facing section: flowers, bouquets or vazony.
func Catalog(svc listings.Service, category enums.ListingCategory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		filters, err := catalogFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cards, err := svc.Catalog(r.Context(), category, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cards)
	}
}

// SalesCatalog lists only listings with a currently valid discount.
func SalesCatalog(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		filters, err := catalogFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cards, err := svc.SalesCatalog(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cards)
	}
}

// LatestListings serves the home page strip of newest visible listings.
func LatestListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		cards, err := svc.LatestListings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cards)
	}
}

// ListingDetail serves the order-form view of a single listing.
func ListingDetail(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		listingID, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetListing(r.Context(), listingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// MapShops aggregates visible listings into one pin per shop with coordinates.
func MapShops(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		filters, err := catalogFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pins, err := svc.MapShops(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pins)
	}
}
