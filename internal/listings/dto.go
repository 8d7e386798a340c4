package listings

import (
	"time"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/rules"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogFilters are the buyer-facing query parameters for catalog pages.
type CatalogFilters struct {
	City     string
	Name     string
	Type     string
	MaxPrice *decimal.Decimal
	Limit    int
}

// ListingCardDTO is the buyer-facing card: the effective price is already
// resolved, with the base price kept as a strikethrough when discounted.
type ListingCardDTO struct {
	ID            uuid.UUID        `json:"id"`
	ShopID        uuid.UUID        `json:"shop_id"`
	Name          string           `json:"name"`
	Type          *string          `json:"type,omitempty"`
	City          *string          `json:"city,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OldPrice      *decimal.Decimal `json:"old_price,omitempty"`
	DiscountLabel string           `json:"discount_label,omitempty"`
	Photo         *string          `json:"photo,omitempty"`
	InStock       bool             `json:"in_stock"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ShopSummaryDTO is the shop block embedded in the listing detail.
type ShopSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	ShopName  string    `json:"shop_name"`
	City      string    `json:"city,omitempty"`
	Address   string    `json:"address,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// ListingDetailDTO backs the order form.
type ListingDetailDTO struct {
	ListingCardDTO
	Description        *string         `json:"description,omitempty"`
	CompositionFlowers []string        `json:"composition_flowers,omitempty"`
	Stock              int             `json:"stock"`
	Shop               *ShopSummaryDTO `json:"shop,omitempty"`
}

// ListingDTO is the seller's management view with raw sale fields.
type ListingDTO struct {
	ID                 uuid.UUID        `json:"id"`
	ShopID             uuid.UUID        `json:"shop_id"`
	Name               string           `json:"name"`
	Type               *string          `json:"type,omitempty"`
	Description        *string          `json:"description,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	Stock              int              `json:"stock"`
	SoldCount          int              `json:"sold_count"`
	Photo              *string          `json:"photo,omitempty"`
	PhotoUpdatedAt     *time.Time       `json:"photo_updated_at,omitempty"`
	City               *string          `json:"city,omitempty"`
	CompositionFlowers []string         `json:"composition_flowers,omitempty"`
	IsActive           bool             `json:"is_active"`
	IsOnSale           bool             `json:"is_on_sale"`
	SalePrice          *decimal.Decimal `json:"sale_price,omitempty"`
	DiscountLabel      *string          `json:"discount_label,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ShopPinDTO is one shop marker on the buyer map, aggregated from its
// visible listings.
type ShopPinDTO struct {
	ShopID       uuid.UUID       `json:"shop_id"`
	ShopName     string          `json:"shop_name"`
	City         string          `json:"city,omitempty"`
	Lat          float64         `json:"lat"`
	Lng          float64         `json:"lng"`
	MinPrice     decimal.Decimal `json:"min_price"`
	HasBouquets  bool            `json:"has_bouquets"`
	ListingCount int             `json:"listing_count"`
}

// NewListingCardDTO resolves the buyer-facing price fields for a listing.
func NewListingCardDTO(listing *models.Listing) ListingCardDTO {
	card := ListingCardDTO{
		ID:        listing.ID,
		ShopID:    listing.ShopID,
		Name:      listing.Name,
		Type:      listing.Type,
		City:      listing.City,
		Price:     rules.EffectivePrice(listing),
		Photo:     listing.Photo,
		InStock:   listing.IsActive,
		CreatedAt: listing.CreatedAt,
	}
	if rules.HasDiscount(listing) {
		base := listing.Price
		card.OldPrice = &base
		card.DiscountLabel = rules.DiscountBadge(listing)
	}
	return card
}

// NewListingDetailDTO builds the order-form detail, including the shop block
// when it was preloaded.
func NewListingDetailDTO(listing *models.Listing) *ListingDetailDTO {
	detail := &ListingDetailDTO{
		ListingCardDTO:     NewListingCardDTO(listing),
		Description:        listing.Description,
		CompositionFlowers: listing.CompositionFlowers,
		Stock:              listing.Stock,
	}
	if listing.Shop != nil {
		detail.Shop = &ShopSummaryDTO{
			ID:        listing.Shop.ID,
			ShopName:  listing.Shop.ShopName,
			City:      listing.Shop.City,
			Address:   listing.Shop.Address,
			Contact:   listing.Shop.Contact,
			AvatarURL: listing.Shop.AvatarURL,
		}
	}
	return detail
}

// NewListingDTO maps the persisted listing to the seller management view.
func NewListingDTO(listing *models.Listing) *ListingDTO {
	return &ListingDTO{
		ID:                 listing.ID,
		ShopID:             listing.ShopID,
		Name:               listing.Name,
		Type:               listing.Type,
		Description:        listing.Description,
		Price:              listing.Price,
		Stock:              listing.Stock,
		SoldCount:          listing.SoldCount,
		Photo:              listing.Photo,
		PhotoUpdatedAt:     listing.PhotoUpdatedAt,
		City:               listing.City,
		CompositionFlowers: listing.CompositionFlowers,
		IsActive:           listing.IsActive,
		IsOnSale:           listing.IsOnSale,
		SalePrice:          listing.SalePrice,
		DiscountLabel:      listing.DiscountLabel,
		CreatedAt:          listing.CreatedAt,
		UpdatedAt:          listing.UpdatedAt,
	}
}
