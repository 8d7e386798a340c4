package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kvitkova/kvitkova-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. A
// seller's shop shares the profile ID, so the subject is all we carry.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.ProfileRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID         `json:"user_id"`
	Role   enums.ProfileRole `json:"role"`
	jwt.RegisteredClaims
}
