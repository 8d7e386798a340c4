package profiles

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
	"github.com/kvitkova/kvitkova-backend/pkg/maps"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fakeGeocoder struct {
	result *maps.GeocodeResult
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string) (*maps.GeocodeResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeObjectStore struct {
	uploadedName string
	url          string
	err          error
}

func (f *fakeObjectStore) Upload(ctx context.Context, objectName, contentType string, data io.Reader) (string, error) {
	f.uploadedName = objectName
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newTestService(t *testing.T, geo *fakeGeocoder, store *fakeObjectStore) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(setupProfilesTestDB(t))
	logg := logger.New(logger.Options{ServiceName: "profiles-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	var g geocoder
	if geo != nil {
		g = geo
	}
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Geocoder: g,
		Avatars:  store,
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestUpdateProfileGeocodesOnAddressChange(t *testing.T) {
	geo := &fakeGeocoder{result: &maps.GeocodeResult{
		FormattedAddress: "вул. Личаківська, 10, Львів",
		Location:         maps.LatLng{Latitude: 49.84, Longitude: 24.03},
	}}
	svc, repo := newTestService(t, geo, &fakeObjectStore{url: "https://example.com/a.png"})
	profile := mustCreateProfile(t, repo, "seller")

	address := "вул. Личаківська, 10"
	city := "Львів"
	updated, err := svc.UpdateProfile(context.Background(), profile.ID, UpdateProfileInput{
		Address: &address,
		City:    &city,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if geo.calls != 1 {
		t.Fatalf("expected one geocode call, got %d", geo.calls)
	}
	if updated.Lat == nil || *updated.Lat != 49.84 {
		t.Fatalf("expected lat 49.84, got %v", updated.Lat)
	}
	if updated.City != "Львів" {
		t.Fatalf("expected city update, got %q", updated.City)
	}
}

func TestUpdateProfileGeocodeFailureKeepsCoordinates(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("places unreachable")}
	svc, repo := newTestService(t, geo, &fakeObjectStore{url: "https://example.com/a.png"})
	profile := mustCreateProfile(t, repo, "seller")

	address := "просп. Свободи, 28"
	updated, err := svc.UpdateProfile(context.Background(), profile.ID, UpdateProfileInput{Address: &address})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Address != "просп. Свободи, 28" {
		t.Fatalf("expected address update, got %q", updated.Address)
	}
	if updated.Lat != nil {
		t.Fatalf("expected coordinates untouched on geocode failure, got %v", *updated.Lat)
	}
}

func TestUpdateProfileUnchangedAddressSkipsGeocoder(t *testing.T) {
	geo := &fakeGeocoder{}
	svc, repo := newTestService(t, geo, &fakeObjectStore{url: "https://example.com/a.png"})
	profile := mustCreateProfile(t, repo, "seller")

	same := profile.Address
	if _, err := svc.UpdateProfile(context.Background(), profile.ID, UpdateProfileInput{Address: &same}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if geo.calls != 0 {
		t.Fatalf("expected no geocode call for unchanged address, got %d", geo.calls)
	}
}

func TestUploadAvatarStoresObjectUnderProfile(t *testing.T) {
	store := &fakeObjectStore{url: "https://storage.example.com/avatars/a.png"}
	svc, repo := newTestService(t, nil, store)
	profile := mustCreateProfile(t, repo, "seller")

	updated, err := svc.UploadAvatar(context.Background(), profile.ID, "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if updated.AvatarURL == nil || *updated.AvatarURL != store.url {
		t.Fatalf("expected avatar url %q, got %v", store.url, updated.AvatarURL)
	}
	if !strings.HasPrefix(store.uploadedName, profile.ID.String()+"/avatar-") {
		t.Fatalf("expected object under profile prefix, got %q", store.uploadedName)
	}

	reloaded, err := repo.FindByID(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if reloaded.AvatarURL == nil || *reloaded.AvatarURL != store.url {
		t.Fatalf("expected avatar url persisted, got %v", reloaded.AvatarURL)
	}
}

func TestReviewShopFlow(t *testing.T) {
	svc, repo := newTestService(t, nil, &fakeObjectStore{url: "u"})
	ctx := context.Background()

	pending := mustCreateProfile(t, repo, "pending")

	t.Run("non-admin denied", func(t *testing.T) {
		_, err := svc.ApproveShop(ctx, "seller", pending.ID)
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("approve pending", func(t *testing.T) {
		dto, err := svc.ApproveShop(ctx, "admin", pending.ID)
		if err != nil {
			t.Fatalf("ApproveShop: %v", err)
		}
		if dto.Role != "seller" {
			t.Fatalf("expected role seller, got %s", dto.Role)
		}
	})

	t.Run("re-review conflicts", func(t *testing.T) {
		_, err := svc.RejectShop(ctx, "admin", pending.ID)
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
	})

	t.Run("reject pending", func(t *testing.T) {
		other := mustCreateProfile(t, repo, "pending")
		dto, err := svc.RejectShop(ctx, "admin", other.ID)
		if err != nil {
			t.Fatalf("RejectShop: %v", err)
		}
		if dto.Role != "rejected" {
			t.Fatalf("expected role rejected, got %s", dto.Role)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := svc.ApproveShop(ctx, "admin", uuid.New())
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
