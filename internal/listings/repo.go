package listings

import (
	"context"
	"strings"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogQuery holds the filters shared by every catalog read. Category
// membership and the case-folded substring filters are resolved in memory
// after the rows come back; only the price ceiling narrows in SQL.
type CatalogQuery struct {
	City     string
	Name     string
	Type     string
	MaxPrice *decimal.Decimal
	WithShop bool
	Limit    int
}

// Repository exposes listing persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a listings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new listing row.
func (r *Repository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// Save writes back every column of an existing listing.
func (r *Repository) Save(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if err := r.db.WithContext(ctx).Save(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete removes a listing by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Listing{}).Error
}

// FindByID loads the listing without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindDetail loads the listing with its owning shop for the order form.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Shop").
		First(&listing, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListByShop lists a seller's own listings, newest first.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.Listing, error) {
	var rows []models.Listing
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListCatalog runs the shared catalog query: substring filters on city, name
// and type, an inclusive price ceiling, newest first, optional row cap. Only
// the price ceiling narrows in SQL; the substring filters run in memory
// because SQLite's LOWER() leaves Cyrillic untouched, so a SQL LIKE cannot
// fold the case of Ukrainian city and product names.
func (r *Repository) ListCatalog(ctx context.Context, query CatalogQuery) ([]models.Listing, error) {
	qb := r.db.WithContext(ctx).Model(&models.Listing{})

	if query.MaxPrice != nil {
		qb = qb.Where("price <= ?", *query.MaxPrice)
	}
	if query.WithShop {
		qb = qb.Preload("Shop")
	}
	qb = qb.Order("created_at DESC")

	var rows []models.Listing
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}

	rows = filterSubstrings(rows, query)
	if query.Limit > 0 && len(rows) > query.Limit {
		rows = rows[:query.Limit]
	}
	return rows, nil
}

func filterSubstrings(rows []models.Listing, query CatalogQuery) []models.Listing {
	city := foldNeedle(query.City)
	name := foldNeedle(query.Name)
	typ := foldNeedle(query.Type)
	if city == "" && name == "" && typ == "" {
		return rows
	}

	kept := rows[:0]
	for i := range rows {
		listing := rows[i]
		if city != "" && !containsFold(listing.City, city) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(listing.Name), name) {
			continue
		}
		if typ != "" && !containsFold(listing.Type, typ) {
			continue
		}
		kept = append(kept, listing)
	}
	return kept
}

func foldNeedle(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func containsFold(value *string, needle string) bool {
	if value == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*value), needle)
}

// Sample returns the first few rows for the debug endpoint.
func (r *Repository) Sample(ctx context.Context, limit int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []models.Listing
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}
