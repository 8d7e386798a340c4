package orders

import (
	"time"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderTab selects which seller dashboard list to show.
type OrderTab string

const (
	// OrderTabActive groups orders the seller still has to act on.
	OrderTabActive OrderTab = "active"
	// OrderTabDone groups closed orders.
	OrderTabDone OrderTab = "done"
)

// Statuses reports which order statuses belong to the tab.
func (t OrderTab) Statuses() []enums.OrderStatus {
	switch t {
	case OrderTabActive:
		return []enums.OrderStatus{enums.OrderStatusNew, enums.OrderStatusInProgress}
	case OrderTabDone:
		return []enums.OrderStatus{enums.OrderStatusDone, enums.OrderStatusCancelled}
	default:
		return nil
	}
}

// CreateOrderInput is the buyer's order form payload. No account is required;
// the email is filled from the session when one exists.
type CreateOrderInput struct {
	ListingID  uuid.UUID
	BuyerName  string
	BuyerPhone string
	BuyerEmail *string
	Comment    *string
	Quantity   int
}

// OrderListingDTO is the listing block embedded in an order row.
type OrderListingDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Type  *string         `json:"type,omitempty"`
	Photo *string         `json:"photo,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// OrderDTO is the order shape returned to API clients.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	ListingID  uuid.UUID         `json:"listing_id"`
	ShopID     uuid.UUID         `json:"shop_id"`
	BuyerName  string            `json:"buyer_name"`
	BuyerPhone string            `json:"buyer_phone"`
	BuyerEmail *string           `json:"buyer_email,omitempty"`
	Comment    *string           `json:"comment,omitempty"`
	Quantity   int               `json:"quantity"`
	Status     enums.OrderStatus `json:"status"`
	Listing    *OrderListingDTO  `json:"listing,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// StatusChangeResult carries the updated order plus a warning when the status
// write landed but the inventory adjustment could not be applied.
type StatusChangeResult struct {
	Order   *OrderDTO `json:"order"`
	Warning string    `json:"warning,omitempty"`
}

// FromModel converts the persisted order into its API representation.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:         order.ID,
		ListingID:  order.ListingID,
		ShopID:     order.ShopID,
		BuyerName:  order.BuyerName,
		BuyerPhone: order.BuyerPhone,
		BuyerEmail: order.BuyerEmail,
		Comment:    order.Comment,
		Quantity:   order.Quantity,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
	}
	if order.Listing != nil {
		dto.Listing = &OrderListingDTO{
			ID:    order.Listing.ID,
			Name:  order.Listing.Name,
			Type:  order.Listing.Type,
			Photo: order.Listing.Photo,
			Price: order.Listing.Price,
		}
	}
	return dto
}
