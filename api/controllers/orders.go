package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kvitkova/kvitkova-backend/api/middleware"
	"github.com/kvitkova/kvitkova-backend/api/responses"
	"github.com/kvitkova/kvitkova-backend/api/validators"
	"github.com/kvitkova/kvitkova-backend/internal/orders"
	"github.com/kvitkova/kvitkova-backend/internal/profiles"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
)

type createOrderRequest struct {
	ListingID  string  `json:"listing_id" validate:"required"`
	BuyerName  string  `json:"buyer_name" validate:"required"`
	BuyerPhone string  `json:"buyer_phone" validate:"required"`
	BuyerEmail *string `json:"buyer_email,omitempty" validate:"omitempty,email"`
	Comment    *string `json:"comment,omitempty"`
	Quantity   int     `json:"quantity" validate:"required,min=1"`
}

// CreateOrder places a buyer order. No account is required; when the caller
// carries a valid session the profile email fills a missing buyer_email.
func CreateOrder(svc orders.Service, profileSvc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := uuid.Parse(strings.TrimSpace(body.ListingID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing_id"))
			return
		}

		input := orders.CreateOrderInput{
			ListingID:  listingID,
			BuyerName:  strings.TrimSpace(body.BuyerName),
			BuyerPhone: strings.TrimSpace(body.BuyerPhone),
			BuyerEmail: body.BuyerEmail,
			Comment:    body.Comment,
			Quantity:   body.Quantity,
		}

		if input.BuyerEmail == nil && profileSvc != nil {
			if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
				if actorID, err := uuid.Parse(raw); err == nil {
					if profile, err := profileSvc.GetProfile(r.Context(), actorID); err == nil && profile.Email != "" {
						email := profile.Email
						input.BuyerEmail = &email
					}
				}
			}
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// SellerListOrders returns the shop's orders for one tab, newest first.
func SellerListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tab := orders.OrderTab(strings.TrimSpace(r.URL.Query().Get("tab")))
		if tab == "" {
			tab = orders.OrderTabActive
		}
		if tab != orders.OrderTabActive && tab != orders.OrderTabDone {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tab must be active or done").WithDetails(map[string]any{"field": "tab"}))
			return
		}

		rows, err := svc.ListSellerOrders(r.Context(), actorID, role, tab)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

type changeOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SellerChangeOrderStatus moves an order through the workflow and applies
// the matching stock adjustment. A listing lookup failure after the status
// write reports success with a warning instead of an error.
func SellerChangeOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actorID, role, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body changeOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateStatus(r.Context(), actorID, role, orderID, enums.OrderStatus(strings.TrimSpace(body.Status)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if result.Warning != "" {
			responses.WriteSuccessWarning(w, result.Order, result.Warning)
			return
		}
		responses.WriteSuccess(w, result.Order)
	}
}
