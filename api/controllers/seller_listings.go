package controllers

import (
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kvitkova/kvitkova-backend/api/responses"
	"github.com/kvitkova/kvitkova-backend/api/validators"
	"github.com/kvitkova/kvitkova-backend/internal/listings"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
)

type createListingRequest struct {
	Name               string   `json:"name" validate:"required"`
	Type               *string  `json:"type,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Price              string   `json:"price" validate:"required"`
	Stock              int      `json:"stock" validate:"min=0"`
	CompositionFlowers []string `json:"composition_flowers,omitempty"`
	IsOnSale           bool     `json:"is_on_sale"`
	SalePrice          *string  `json:"sale_price,omitempty"`
	DiscountLabel      *string  `json:"discount_label,omitempty"`
}

func (req createListingRequest) toInput() (listings.CreateListingInput, error) {
	price, err := parsePrice(req.Price, "price")
	if err != nil {
		return listings.CreateListingInput{}, err
	}

	input := listings.CreateListingInput{
		Name:               strings.TrimSpace(req.Name),
		Type:               req.Type,
		Description:        req.Description,
		Price:              price,
		Stock:              req.Stock,
		CompositionFlowers: req.CompositionFlowers,
		IsOnSale:           req.IsOnSale,
		DiscountLabel:      req.DiscountLabel,
	}

	if req.SalePrice != nil {
		salePrice, err := parsePrice(*req.SalePrice, "sale_price")
		if err != nil {
			return listings.CreateListingInput{}, err
		}
		input.SalePrice = &salePrice
	}

	return input, nil
}

func parsePrice(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, field+" must be numeric").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

// isMultipart reports whether the request carries a multipart form body.
func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data"
}

func createInputFromForm(r *http.Request) (listings.CreateListingInput, *multipart.FileHeader, error) {
	price, err := parsePrice(r.FormValue("price"), "price")
	if err != nil {
		return listings.CreateListingInput{}, nil, err
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return listings.CreateListingInput{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").WithDetails(map[string]any{"field": "name"})
	}

	stock := 0
	if raw := strings.TrimSpace(r.FormValue("stock")); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil {
			return listings.CreateListingInput{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be numeric").WithDetails(map[string]any{"field": "stock"})
		}
	}

	input := listings.CreateListingInput{
		Name:     name,
		Price:    price,
		Stock:    stock,
		IsOnSale: r.FormValue("is_on_sale") == "true",
	}

	if raw := strings.TrimSpace(r.FormValue("type")); raw != "" {
		input.Type = &raw
	}
	if raw := strings.TrimSpace(r.FormValue("description")); raw != "" {
		input.Description = &raw
	}
	if raw := strings.TrimSpace(r.FormValue("composition_flowers")); raw != "" {
		parts := strings.Split(raw, ",")
		flowers := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				flowers = append(flowers, trimmed)
			}
		}
		input.CompositionFlowers = flowers
	}
	if raw := strings.TrimSpace(r.FormValue("sale_price")); raw != "" {
		salePrice, err := parsePrice(raw, "sale_price")
		if err != nil {
			return listings.CreateListingInput{}, nil, err
		}
		input.SalePrice = &salePrice
	}
	if raw := strings.TrimSpace(r.FormValue("discount_label")); raw != "" {
		input.DiscountLabel = &raw
	}

	var photo *multipart.FileHeader
	if r.MultipartForm != nil && len(r.MultipartForm.File["photo"]) > 0 {
		photo = r.MultipartForm.File["photo"][0]
	}

	return input, photo, nil
}

// SellerCreateListing adds a listing to the seller's shop. The body is
// either JSON or a multipart form with an optional photo part.
func SellerCreateListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var (
			input listings.CreateListingInput
			photo *multipart.FileHeader
		)
		if isMultipart(r) {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
				return
			}
			input, photo, err = createInputFromForm(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			var body createListingRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input, err = body.toInput()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		listing, err := svc.CreateListing(r.Context(), actorID, role, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if photo != nil {
			file, err := photo.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read photo part"))
				return
			}
			defer file.Close()

			contentType := photo.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}

			listing, err = svc.UploadPhoto(r.Context(), actorID, role, listing.ID, contentType, file)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

// SellerListListings returns every listing in the seller's shop, newest first.
func SellerListListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListSellerListings(r.Context(), actorID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

type updateListingRequest struct {
	Name               *string   `json:"name,omitempty"`
	Type               *string   `json:"type,omitempty"`
	Description        *string   `json:"description,omitempty"`
	Price              *string   `json:"price,omitempty"`
	Stock              *int      `json:"stock,omitempty" validate:"omitempty,min=0"`
	CompositionFlowers *[]string `json:"composition_flowers,omitempty"`
	IsOnSale           *bool     `json:"is_on_sale,omitempty"`
	SalePrice          *string   `json:"sale_price,omitempty"`
	DiscountLabel      *string   `json:"discount_label,omitempty"`
}

func (req updateListingRequest) toInput() (listings.UpdateListingInput, error) {
	input := listings.UpdateListingInput{
		Name:               req.Name,
		Type:               req.Type,
		Description:        req.Description,
		Stock:              req.Stock,
		CompositionFlowers: req.CompositionFlowers,
		IsOnSale:           req.IsOnSale,
		DiscountLabel:      req.DiscountLabel,
	}

	if req.Price != nil {
		price, err := parsePrice(*req.Price, "price")
		if err != nil {
			return listings.UpdateListingInput{}, err
		}
		input.Price = &price
	}
	if req.SalePrice != nil {
		salePrice, err := parsePrice(*req.SalePrice, "sale_price")
		if err != nil {
			return listings.UpdateListingInput{}, err
		}
		input.SalePrice = &salePrice
	}

	return input, nil
}

// SellerUpdateListing patches listing fields; sale-toggle semantics are
// applied server-side and the active flag follows stock.
func SellerUpdateListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateListingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.UpdateListing(r.Context(), actorID, role, listingID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}

// SellerUploadListingPhoto replaces the listing photo and refreshes its
// staleness clock.
func SellerUploadListingPhoto(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "photo file required"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		listing, err := svc.UploadPhoto(r.Context(), actorID, role, listingID, contentType, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}

// SellerDeleteListing removes a listing from the seller's shop.
func SellerDeleteListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteListing(r.Context(), actorID, role, listingID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
