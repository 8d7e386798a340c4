package orders

import (
	"context"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes order persistence plus the listing counter update the
// status workflow applies in the same transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new order row.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads the order without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByShop lists a shop's orders in the given statuses, newest first, with
// the listing preloaded for the dashboard rows.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID, statuses []enums.OrderStatus) ([]models.Order, error) {
	qb := r.db.WithContext(ctx).
		Preload("Listing").
		Where("shop_id = ?", shopID)
	if len(statuses) > 0 {
		qb = qb.Where("status IN ?", statuses)
	}

	var rows []models.Order
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// UpdateStatus writes the order's new status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// FindListing loads the order's listing row inside the status transaction.
func (r *Repository) FindListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateListingCounters writes the inventory counters and the derived active
// flag in one statement.
func (r *Repository) UpdateListingCounters(ctx context.Context, listingID uuid.UUID, stock, sold int, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", listingID).
		Updates(map[string]any{
			"stock":      stock,
			"sold_count": sold,
			"is_active":  active,
		}).Error
}
