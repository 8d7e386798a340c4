package rules

import (
	"github.com/shopspring/decimal"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
)

// DefaultDiscountLabel is the badge shown when a seller enables a sale
// without naming it.
const DefaultDiscountLabel = "Знижка"

// HasDiscount reports whether the listing carries a live discount: the sale
// flag is on and the sale price is positive and genuinely undercuts the base
// price. A zero or negative sale price degrades to "no discount shown".
func HasDiscount(listing *models.Listing) bool {
	if listing == nil || !listing.IsOnSale || listing.SalePrice == nil {
		return false
	}
	return listing.SalePrice.GreaterThan(decimal.Zero) && listing.SalePrice.LessThan(listing.Price)
}

// OnSalePage reports whether the listing belongs on the sales catalog.
func OnSalePage(listing *models.Listing) bool {
	return HasDiscount(listing)
}

// EffectivePrice returns the price a buyer pays right now.
func EffectivePrice(listing *models.Listing) decimal.Decimal {
	if HasDiscount(listing) {
		return *listing.SalePrice
	}
	return listing.Price
}

// DiscountBadge returns the label to render on a discounted listing, empty
// when no discount applies.
func DiscountBadge(listing *models.Listing) string {
	if !HasDiscount(listing) {
		return ""
	}
	if listing.DiscountLabel != nil && *listing.DiscountLabel != "" {
		return *listing.DiscountLabel
	}
	return DefaultDiscountLabel
}

// NormalizeSaleFields makes the persisted sale fields consistent with the
// sale flag. Enabling a sale without a price seeds it from the base price and
// defaults the label; disabling clears both.
func NormalizeSaleFields(listing *models.Listing) {
	if listing == nil {
		return
	}
	if !listing.IsOnSale {
		listing.SalePrice = nil
		listing.DiscountLabel = nil
		return
	}
	if listing.SalePrice == nil {
		price := listing.Price
		listing.SalePrice = &price
	}
	if listing.DiscountLabel == nil || *listing.DiscountLabel == "" {
		label := DefaultDiscountLabel
		listing.DiscountLabel = &label
	}
}
