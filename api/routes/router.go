package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kvitkova/kvitkova-backend/api/controllers"
	"github.com/kvitkova/kvitkova-backend/api/middleware"
	authsvc "github.com/kvitkova/kvitkova-backend/internal/auth"
	"github.com/kvitkova/kvitkova-backend/internal/listings"
	"github.com/kvitkova/kvitkova-backend/internal/orders"
	"github.com/kvitkova/kvitkova-backend/internal/profiles"
	"github.com/kvitkova/kvitkova-backend/pkg/auth/session"
	"github.com/kvitkova/kvitkova-backend/pkg/config"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
	"github.com/kvitkova/kvitkova-backend/pkg/metrics"
	"github.com/kvitkova/kvitkova-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Redis    *redis.Client
	Sessions sessionManager
	Metrics  *metrics.HTTPMetrics

	Auth     authsvc.Service
	Profiles profiles.Service
	Listings listings.Service
	Orders   orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Metrics(deps.Metrics),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	// Buyer endpoints need no account.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/flowers", controllers.Catalog(deps.Listings, enums.ListingCategoryFlowers, logg))
			r.Get("/bouquets", controllers.Catalog(deps.Listings, enums.ListingCategoryBouquets, logg))
			r.Get("/vazony", controllers.Catalog(deps.Listings, enums.ListingCategoryVazony, logg))
			r.Get("/sales", controllers.SalesCatalog(deps.Listings, logg))
			r.Get("/latest", controllers.LatestListings(deps.Listings, logg))
		})
		r.Get("/listings/{listingId}", controllers.ListingDetail(deps.Listings, logg))
		r.Get("/map/shops", controllers.MapShops(deps.Listings, logg))
		r.Get("/debug/listings", controllers.DebugListings(deps.Listings, cfg, logg))

		r.With(middleware.OptionalAuth(cfg.JWT, deps.Sessions)).
			Post("/orders", controllers.CreateOrder(deps.Orders, deps.Profiles, logg))
	})

	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Get("/", controllers.ProfileGet(deps.Profiles, logg))
		r.Put("/", controllers.ProfileUpdate(deps.Profiles, logg))
		r.Post("/avatar", controllers.ProfileUploadAvatar(deps.Profiles, logg))
	})

	r.Route("/api/v1/seller", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Route("/listings", func(r chi.Router) {
			r.Post("/", controllers.SellerCreateListing(deps.Listings, logg))
			r.Get("/", controllers.SellerListListings(deps.Listings, logg))
			r.Patch("/{listingId}", controllers.SellerUpdateListing(deps.Listings, logg))
			r.Post("/{listingId}/photo", controllers.SellerUploadListingPhoto(deps.Listings, logg))
			r.Delete("/{listingId}", controllers.SellerDeleteListing(deps.Listings, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.SellerListOrders(deps.Orders, logg))
			r.Post("/{orderId}/status", controllers.SellerChangeOrderStatus(deps.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.ProfileRoleAdmin), logg))
		r.Route("/sellers", func(r chi.Router) {
			r.Get("/pending", controllers.AdminListPendingSellers(deps.Profiles, logg))
			r.Post("/{profileId}/approve", controllers.AdminApproveSeller(deps.Profiles, logg))
			r.Post("/{profileId}/reject", controllers.AdminRejectSeller(deps.Profiles, logg))
		})
	})

	return r
}
