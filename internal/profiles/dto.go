package profiles

import (
	"time"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateProfileDTO carries the fields persisted when a profile is created.
type CreateProfileDTO struct {
	Email        string
	PasswordHash string
	Role         enums.ProfileRole
	ShopName     string
	City         string
	Address      string
	Contact      string
	Lat          *float64
	Lng          *float64
}

// ToModel converts the DTO into a persistable profile model.
func (d CreateProfileDTO) ToModel() *models.Profile {
	return &models.Profile{
		ID:           uuid.New(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		ShopName:     d.ShopName,
		City:         d.City,
		Address:      d.Address,
		Contact:      d.Contact,
		Lat:          d.Lat,
		Lng:          d.Lng,
	}
}

// ProfileDTO is the profile shape returned to API clients. The password hash
// never leaves the service layer.
type ProfileDTO struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	Role      enums.ProfileRole `json:"role"`
	ShopName  string            `json:"shop_name,omitempty"`
	City      string            `json:"city,omitempty"`
	Address   string            `json:"address,omitempty"`
	Contact   string            `json:"contact,omitempty"`
	AvatarURL *string           `json:"avatar_url,omitempty"`
	Lat       *float64          `json:"lat,omitempty"`
	Lng       *float64          `json:"lng,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// FromModel converts the persisted profile into its API representation.
func FromModel(profile *models.Profile) *ProfileDTO {
	if profile == nil {
		return nil
	}
	return &ProfileDTO{
		ID:        profile.ID,
		Email:     profile.Email,
		Role:      profile.Role,
		ShopName:  profile.ShopName,
		City:      profile.City,
		Address:   profile.Address,
		Contact:   profile.Contact,
		AvatarURL: profile.AvatarURL,
		Lat:       profile.Lat,
		Lng:       profile.Lng,
		CreatedAt: profile.CreatedAt,
	}
}

// UpdateProfileInput holds the optional mutation values for a profile.
type UpdateProfileInput struct {
	ShopName *string `json:"shop_name,omitempty"`
	City     *string `json:"city,omitempty"`
	Address  *string `json:"address,omitempty"`
	Contact  *string `json:"contact,omitempty"`
}
