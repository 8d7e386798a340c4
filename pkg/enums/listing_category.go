package enums

import "fmt"

// ListingCategory identifies a buyer-facing catalog section. Listings store a
// free-form type string, so category membership is resolved by token matching
// rather than by column equality.
type ListingCategory string

const (
	ListingCategoryFlowers      ListingCategory = "flowers"
	ListingCategoryBouquets     ListingCategory = "bouquets"
	ListingCategoryVazony       ListingCategory = "vazony"
	ListingCategoryCompositions ListingCategory = "compositions"
)

var validListingCategories = []ListingCategory{
	ListingCategoryFlowers,
	ListingCategoryBouquets,
	ListingCategoryVazony,
	ListingCategoryCompositions,
}

// String implements fmt.Stringer.
func (c ListingCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ListingCategory.
func (c ListingCategory) IsValid() bool {
	for _, candidate := range validListingCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseListingCategory converts raw input into a ListingCategory.
func ParseListingCategory(value string) (ListingCategory, error) {
	for _, candidate := range validListingCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing category %q", value)
}
