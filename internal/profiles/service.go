package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
	"github.com/kvitkova/kvitkova-backend/pkg/maps"
	"github.com/kvitkova/kvitkova-backend/pkg/rules"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes profile management and the admin review flow.
type Service interface {
	GetProfile(ctx context.Context, profileID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, profileID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	UploadAvatar(ctx context.Context, profileID uuid.UUID, contentType string, data io.Reader) (*ProfileDTO, error)
	ListPendingShops(ctx context.Context, actorRole string) ([]ProfileDTO, error)
	ApproveShop(ctx context.Context, actorRole string, profileID uuid.UUID) (*ProfileDTO, error)
	RejectShop(ctx context.Context, actorRole string, profileID uuid.UUID) (*ProfileDTO, error)
}

type geocoder interface {
	Geocode(ctx context.Context, query string) (*maps.GeocodeResult, error)
}

type objectStore interface {
	Upload(ctx context.Context, objectName, contentType string, data io.Reader) (string, error)
}

type service struct {
	repo     *Repository
	geocoder geocoder
	avatars  objectStore
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a profile service.
type ServiceParams struct {
	Repo     *Repository
	Geocoder geocoder
	Avatars  objectStore
	Logger   *logger.Logger
}

// NewService constructs a profile service instance. The geocoder is optional;
// without one, address changes simply keep the existing coordinates.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if params.Avatars == nil {
		return nil, fmt.Errorf("avatar object store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		geocoder: params.Geocoder,
		avatars:  params.Avatars,
		logg:     params.Logger,
	}, nil
}

func (s *service) GetProfile(ctx context.Context, profileID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

// UpdateProfile applies partial edits to the caller's own profile. Role is
// never writable here. An address change re-geocodes the shop on a best
// effort basis; a geocoder failure keeps the old coordinates.
func (s *service) UpdateProfile(ctx context.Context, profileID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.ShopName != nil {
		fields["shop_name"] = strings.TrimSpace(*input.ShopName)
	}
	if input.City != nil {
		fields["city"] = strings.TrimSpace(*input.City)
	}
	if input.Contact != nil {
		fields["contact"] = strings.TrimSpace(*input.Contact)
	}

	addressChanged := false
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address != profile.Address {
			addressChanged = true
		}
		fields["address"] = address
	}

	if addressChanged && s.geocoder != nil {
		city := profile.City
		if input.City != nil {
			city = strings.TrimSpace(*input.City)
		}
		if lat, lng, ok := s.geocode(ctx, fields["address"].(string), city); ok {
			fields["lat"] = lat
			fields["lng"] = lng
		}
	}

	if err := s.repo.UpdateFields(ctx, profileID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}

	updated, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// UploadAvatar stores the image and points the profile at its public URL.
func (s *service) UploadAvatar(ctx context.Context, profileID uuid.UUID, contentType string, data io.Reader) (*ProfileDTO, error) {
	if data == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "avatar payload required")
	}

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s/avatar-%d", profile.ID, time.Now().UTC().Unix())
	url, err := s.avatars.Upload(ctx, objectName, contentType, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload avatar")
	}

	if err := s.repo.UpdateFields(ctx, profileID, map[string]any{"avatar_url": url}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save avatar url")
	}

	profile.AvatarURL = &url
	return FromModel(profile), nil
}

func (s *service) ListPendingShops(ctx context.Context, actorRole string) ([]ProfileDTO, error) {
	if err := rules.EnsureAdmin(parseRole(actorRole)); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending shops")
	}
	dtos := make([]ProfileDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) ApproveShop(ctx context.Context, actorRole string, profileID uuid.UUID) (*ProfileDTO, error) {
	return s.reviewShop(ctx, actorRole, profileID, enums.ProfileRoleSeller)
}

func (s *service) RejectShop(ctx context.Context, actorRole string, profileID uuid.UUID) (*ProfileDTO, error) {
	return s.reviewShop(ctx, actorRole, profileID, enums.ProfileRoleRejected)
}

// reviewShop moves a pending application to its decided role. Re-deciding an
// already reviewed shop is a state conflict, not a silent overwrite.
func (s *service) reviewShop(ctx context.Context, actorRole string, profileID uuid.UUID, target enums.ProfileRole) (*ProfileDTO, error) {
	if err := rules.EnsureAdmin(parseRole(actorRole)); err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.Role != enums.ProfileRolePending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shop application already reviewed").
			WithDetails(map[string]any{"role": profile.Role})
	}

	if err := s.repo.UpdateRole(ctx, profileID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop role")
	}

	profile.Role = target
	return FromModel(profile), nil
}

func (s *service) loadProfile(ctx context.Context, profileID uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func (s *service) geocode(ctx context.Context, address, city string) (float64, float64, bool) {
	query := address
	if city != "" {
		query = address + ", " + city
	}
	result, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		s.logg.Warn(ctx, "geocode failed: "+err.Error())
		return 0, 0, false
	}
	if result == nil {
		return 0, 0, false
	}
	return result.Location.Latitude, result.Location.Longitude, true
}

func parseRole(raw string) enums.ProfileRole {
	role, err := enums.ParseProfileRole(raw)
	if err != nil {
		return ""
	}
	return role
}
