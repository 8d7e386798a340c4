package auth

import (
	"github.com/kvitkova/kvitkova-backend/internal/profiles"
)

// RegisterRequest is the shop onboarding payload. Every new registration
// starts as a pending application awaiting admin review.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	ShopName string `json:"shop_name" validate:"required"`
	City     string `json:"city" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Contact  string `json:"contact" validate:"required"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired access token and its refresh pair.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is a freshly minted access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse contains the tokens and profile produced by a successful
// registration or login.
type AuthResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	Profile      *profiles.ProfileDTO `json:"profile"`
}
