package rules

import (
	"strings"

	"github.com/kvitkova/kvitkova-backend/pkg/enums"
)

// Category membership is derived from the listing's free-form type field.
// Matching is done in Go because LOWER() in the database does not fold
// Cyrillic letters on every backend we run against.

const (
	tokenFlowers     = "квіти"
	tokenBouquet     = "букет"
	tokenVazon       = "вазон"
	tokenComposition = "компози"
)

func normalizeType(listingType *string) string {
	if listingType == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*listingType))
}

// MatchesCategory reports whether a listing type belongs to the catalog
// section. Flowers match on prefix, the rest on substring.
func MatchesCategory(listingType *string, category enums.ListingCategory) bool {
	typ := normalizeType(listingType)
	if typ == "" {
		return false
	}
	switch category {
	case enums.ListingCategoryFlowers:
		return strings.HasPrefix(typ, tokenFlowers)
	case enums.ListingCategoryBouquets:
		return strings.Contains(typ, tokenBouquet)
	case enums.ListingCategoryVazony:
		return strings.Contains(typ, tokenVazon)
	case enums.ListingCategoryCompositions:
		return strings.Contains(typ, tokenComposition)
	default:
		return false
	}
}

// IsBouquetLike reports whether the listing type routes to the bouquet side
// of the shop map, which groups bouquets and compositions together.
func IsBouquetLike(listingType *string) bool {
	typ := normalizeType(listingType)
	return strings.Contains(typ, tokenBouquet) || strings.Contains(typ, tokenComposition)
}
