package rules

import (
	"time"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
)

// DefaultStaleAfter is the window inside which a listing's photo must have
// been refreshed to stay visible to buyers.
const DefaultStaleAfter = 48 * time.Hour

// LastUpdate returns the freshness timestamp used by the staleness check:
// the photo refresh time when present, the creation time otherwise.
func LastUpdate(listing *models.Listing) time.Time {
	if listing.PhotoUpdatedAt != nil {
		return *listing.PhotoUpdatedAt
	}
	return listing.CreatedAt
}

// IsStale reports whether the listing has aged out of buyer-facing catalogs.
// A listing exactly at the boundary is still fresh.
func IsStale(listing *models.Listing, now time.Time, staleAfter time.Duration) bool {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return now.Sub(LastUpdate(listing)) > staleAfter
}

// VisibilityFilter configures which checks a catalog page applies.
type VisibilityFilter struct {
	Now        time.Time
	StaleAfter time.Duration
	// RequireActive additionally hides out-of-stock listings. Only the
	// flowers catalog asks for it; bouquet and vazon pages show sold-out
	// listings until they go stale.
	RequireActive bool
}

// VisibleToBuyers applies the shared buyer-facing visibility checks.
func VisibleToBuyers(listing *models.Listing, filter VisibilityFilter) bool {
	if listing == nil {
		return false
	}
	if IsStale(listing, filter.Now, filter.StaleAfter) {
		return false
	}
	if filter.RequireActive && !listing.IsActive {
		return false
	}
	return true
}

// FilterVisible keeps only the listings a buyer may see, preserving order.
func FilterVisible(listings []models.Listing, filter VisibilityFilter) []models.Listing {
	visible := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if VisibleToBuyers(&listings[i], filter) {
			visible = append(visible, listings[i])
		}
	}
	return visible
}
