package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Listing is a shop's catalog entry. Type is free-form text in the shape
// "Категорія · підтип"; category membership is resolved by token matching.
type Listing struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ShopID             uuid.UUID        `gorm:"column:shop_id;type:uuid;not null;index"`
	Name               string           `gorm:"column:name;not null"`
	Type               *string          `gorm:"column:type"`
	Description        *string          `gorm:"column:description"`
	Price              decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	Stock              int              `gorm:"column:stock;not null;default:0"`
	SoldCount          int              `gorm:"column:sold_count;not null;default:0"`
	Photo              *string          `gorm:"column:photo"`
	PhotoUpdatedAt     *time.Time       `gorm:"column:photo_updated_at"`
	City               *string          `gorm:"column:city"`
	CompositionFlowers pq.StringArray   `gorm:"column:composition_flowers;type:text[]"`
	IsActive           bool             `gorm:"column:is_active;not null;default:false"`
	IsOnSale           bool             `gorm:"column:is_on_sale;not null;default:false"`
	SalePrice          *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	DiscountLabel      *string          `gorm:"column:discount_label"`
	Shop               *Profile         `gorm:"foreignKey:ShopID"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
