package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kvitkova/kvitkova-backend/internal/profiles"
	pkgAuth "github.com/kvitkova/kvitkova-backend/pkg/auth"
	"github.com/kvitkova/kvitkova-backend/pkg/auth/session"
	"github.com/kvitkova/kvitkova-backend/pkg/config"
	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
	"github.com/kvitkova/kvitkova-backend/pkg/maps"
	"github.com/kvitkova/kvitkova-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

type profileRepository interface {
	Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type geocoder interface {
	Geocode(ctx context.Context, query string) (*maps.GeocodeResult, error)
}

type service struct {
	profiles    profileRepository
	session     sessionManager
	geocoder    geocoder
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Profiles       profileRepository
	SessionManager sessionManager
	Geocoder       geocoder
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs an auth service with the provided dependencies. The
// geocoder is optional; without one, new shops register without coordinates.
func NewService(params ServiceParams) (Service, error) {
	if params.Profiles == nil {
		return nil, fmt.Errorf("profiles repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		profiles:    params.Profiles,
		session:     params.SessionManager,
		geocoder:    params.Geocoder,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

// Register creates the shop application. The profile starts as pending; the
// tokens let the owner watch their application from the dashboard while an
// admin reviews it.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	if strings.TrimSpace(req.ShopName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}

	if _, err := s.profiles.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check profile email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	dto := profiles.CreateProfileDTO{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         enums.ProfileRolePending,
		ShopName:     strings.TrimSpace(req.ShopName),
		City:         strings.TrimSpace(req.City),
		Address:      strings.TrimSpace(req.Address),
		Contact:      strings.TrimSpace(req.Contact),
	}
	if s.geocoder != nil && dto.Address != "" {
		query := dto.Address
		if dto.City != "" {
			query = dto.Address + ", " + dto.City
		}
		if result, err := s.geocoder.Geocode(ctx, query); err != nil {
			s.logg.Warn(ctx, "registration geocode failed: "+err.Error())
		} else if result != nil {
			lat, lng := result.Location.Latitude, result.Location.Longitude
			dto.Lat = &lat
			dto.Lng = &lng
		}
	}

	profile, err := s.profiles.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}

	return s.issueTokens(ctx, profile)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	profile, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, profile)
}

// Refresh rotates the session. The role is re-read from the profile row, so
// an approval between logins takes effect on the next refresh.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, refreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	profile, err := s.profiles.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: profile.ID,
		Role:   profile.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	profile, err := s.profiles.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile")
	}

	valid, err := security.VerifyPassword(password, profile.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return profile, nil
}

func (s *service) issueTokens(ctx context.Context, profile *models.Profile) (*AuthResponse, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: profile.ID,
		Role:   profile.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profiles.FromModel(profile),
	}, nil
}
