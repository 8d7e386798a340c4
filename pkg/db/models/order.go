package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kvitkova/kvitkova-backend/pkg/enums"
)

// Order is a buyer's request for a single listing. ShopID is denormalized so
// seller dashboards never join through listings.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ListingID  uuid.UUID         `gorm:"column:listing_id;type:uuid;not null;index"`
	ShopID     uuid.UUID         `gorm:"column:shop_id;type:uuid;not null;index"`
	BuyerName  string            `gorm:"column:buyer_name;not null"`
	BuyerPhone string            `gorm:"column:buyer_phone;not null"`
	BuyerEmail *string           `gorm:"column:buyer_email"`
	Comment    *string           `gorm:"column:comment"`
	Quantity   int               `gorm:"column:quantity;not null;default:1"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:new"`
	Listing    *Listing          `gorm:"foreignKey:ListingID"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
