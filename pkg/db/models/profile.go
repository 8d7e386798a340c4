package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kvitkova/kvitkova-backend/pkg/enums"
)

// Profile is a marketplace account. Sellers carry shop details; buyers and
// admins leave them empty.
type Profile struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Email        string            `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	Role         enums.ProfileRole `gorm:"column:role;not null;default:pending"`
	ShopName     string            `gorm:"column:shop_name"`
	City         string            `gorm:"column:city"`
	Address      string            `gorm:"column:address"`
	Contact      string            `gorm:"column:contact"`
	AvatarURL    *string           `gorm:"column:avatar_url"`
	Lat          *float64          `gorm:"column:lat"`
	Lng          *float64          `gorm:"column:lng"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
