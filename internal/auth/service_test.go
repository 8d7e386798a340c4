package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/kvitkova/kvitkova-backend/internal/profiles"
	pkgAuth "github.com/kvitkova/kvitkova-backend/pkg/auth"
	"github.com/kvitkova/kvitkova-backend/pkg/auth/session"
	"github.com/kvitkova/kvitkova-backend/pkg/config"
	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
	"github.com/kvitkova/kvitkova-backend/pkg/maps"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "kvitkova-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

type memProfileRepo struct {
	byEmail map[string]*models.Profile
	byID    map[uuid.UUID]*models.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{
		byEmail: map[string]*models.Profile{},
		byID:    map[uuid.UUID]*models.Profile{},
	}
}

func (r *memProfileRepo) Create(ctx context.Context, dto profiles.CreateProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	r.byEmail[profile.Email] = profile
	r.byID[profile.ID] = profile
	return profile, nil
}

func (r *memProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if profile, ok := r.byEmail[email]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if profile, ok := r.byID[id]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessions struct {
	tokens  map[string]string
	revoked []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.tokens[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + newAccessID
	f.tokens[newAccessID] = token
	return newAccessID, token, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	delete(f.tokens, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

type fakeGeocoder struct {
	result *maps.GeocodeResult
	err    error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string) (*maps.GeocodeResult, error) {
	return f.result, f.err
}

func newAuthService(t *testing.T, repo *memProfileRepo, sessions *fakeSessions, geo *fakeGeocoder) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "auth-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	var g geocoder
	if geo != nil {
		g = geo
	}
	svc, err := NewService(ServiceParams{
		Profiles:       repo,
		SessionManager: sessions,
		Geocoder:       g,
		JWTConfig:      testJWTConfig,
		Logger:         logg,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Email:    "Shop@Example.com",
		Password: "correct-horse-battery",
		ShopName: "Квітковий рай",
		City:     "Київ",
		Address:  "вул. Хрещатик, 1",
		Contact:  "+380501112233",
	}
}

func TestRegisterCreatesPendingProfile(t *testing.T) {
	repo := newMemProfileRepo()
	geo := &fakeGeocoder{result: &maps.GeocodeResult{
		Location: maps.LatLng{Latitude: 50.45, Longitude: 30.52},
	}}
	svc := newAuthService(t, repo, newFakeSessions(), geo)

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Profile.Role != enums.ProfileRolePending {
		t.Fatalf("expected pending role, got %s", resp.Profile.Role)
	}
	if resp.Profile.Email != "shop@example.com" {
		t.Fatalf("expected normalized email, got %q", resp.Profile.Email)
	}
	if resp.Profile.Lat == nil || *resp.Profile.Lat != 50.45 {
		t.Fatalf("expected geocoded coordinates, got %v", resp.Profile.Lat)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.ProfileRolePending {
		t.Fatalf("expected pending role in claims, got %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}
}

func TestRegisterGeocodeFailureStillCreates(t *testing.T) {
	repo := newMemProfileRepo()
	geo := &fakeGeocoder{err: errors.New("places timeout")}
	svc := newAuthService(t, repo, newFakeSessions(), geo)

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Profile.Lat != nil {
		t.Fatalf("expected no coordinates on geocode failure, got %v", *resp.Profile.Lat)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemProfileRepo()
	svc := newAuthService(t, repo, newFakeSessions(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterRequest()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, validRegisterRequest())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newMemProfileRepo()
	svc := newAuthService(t, repo, newFakeSessions(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{Email: "shop@example.com", Password: "correct-horse-battery"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Fatal("expected token pair")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "shop@example.com", Password: "wrong"})
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	repo := newMemProfileRepo()
	sessions := newFakeSessions()
	svc := newAuthService(t, repo, sessions, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegisterRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Approval lands between login and refresh.
	repo.byID[resp.Profile.ID].Role = enums.ProfileRoleSeller

	pair, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.Role != enums.ProfileRoleSeller {
		t.Fatalf("expected refreshed token to carry seller role, got %s", claims.Role)
	}

	t.Run("old refresh token rejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, RefreshRequest{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
		})
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})
}

func TestRefreshRejectsGarbageAccessToken(t *testing.T) {
	svc := newAuthService(t, newMemProfileRepo(), newFakeSessions(), nil)
	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  "not-a-jwt",
		RefreshToken: "whatever",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newMemProfileRepo()
	sessions := newFakeSessions()
	svc := newAuthService(t, repo, sessions, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegisterRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if err := svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != claims.ID {
		t.Fatalf("expected session revoked for %s, got %v", claims.ID, sessions.revoked)
	}

	if err := svc.Logout(ctx, " "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}
