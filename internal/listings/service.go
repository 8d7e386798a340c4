package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kvitkova/kvitkova-backend/pkg/config"
	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/rules"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the buyer catalogs and the seller's listing management.
type Service interface {
	Catalog(ctx context.Context, category enums.ListingCategory, filters CatalogFilters) ([]ListingCardDTO, error)
	SalesCatalog(ctx context.Context, filters CatalogFilters) ([]ListingCardDTO, error)
	LatestListings(ctx context.Context) ([]ListingCardDTO, error)
	GetListing(ctx context.Context, listingID uuid.UUID) (*ListingDetailDTO, error)
	MapShops(ctx context.Context, filters CatalogFilters) ([]ShopPinDTO, error)
	DebugSample(ctx context.Context) ([]ListingDTO, error)

	CreateListing(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, input CreateListingInput) (*ListingDTO, error)
	ListSellerListings(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole) ([]ListingDTO, error)
	UpdateListing(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, listingID uuid.UUID, input UpdateListingInput) (*ListingDTO, error)
	UploadPhoto(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, listingID uuid.UUID, contentType string, data io.Reader) (*ListingDTO, error)
	DeleteListing(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, listingID uuid.UUID) error
}

// CreateListingInput holds the validated payload for a new listing.
type CreateListingInput struct {
	Name               string
	Type               *string
	Description        *string
	Price              decimal.Decimal
	Stock              int
	CompositionFlowers []string
	IsOnSale           bool
	SalePrice          *decimal.Decimal
	DiscountLabel      *string
}

// UpdateListingInput holds optional mutation values for a listing. The
// active flag is absent on purpose: it always follows stock.
type UpdateListingInput struct {
	Name               *string
	Type               *string
	Description        *string
	Price              *decimal.Decimal
	Stock              *int
	CompositionFlowers *[]string
	IsOnSale           *bool
	SalePrice          *decimal.Decimal
	DiscountLabel      *string
}

type shopLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type objectStore interface {
	Upload(ctx context.Context, objectName, contentType string, data io.Reader) (string, error)
}

type service struct {
	repo   *Repository
	shops  shopLoader
	photos objectStore
	cfg    config.CatalogConfig
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build a listing service.
type ServiceParams struct {
	Repo    *Repository
	Shops   shopLoader
	Photos  objectStore
	Catalog config.CatalogConfig
}

// NewService constructs a listing service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if params.Shops == nil {
		return nil, fmt.Errorf("shop loader required")
	}
	if params.Photos == nil {
		return nil, fmt.Errorf("photo object store required")
	}
	return &service{
		repo:   params.Repo,
		shops:  params.Shops,
		photos: params.Photos,
		cfg:    params.Catalog,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Catalog serves one buyer-facing section. The DB narrows by the cheap
// filters; staleness and category tokens are applied here because neither
// folds Cyrillic reliably in SQL.
func (s *service) Catalog(ctx context.Context, category enums.ListingCategory, filters CatalogFilters) ([]ListingCardDTO, error) {
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown catalog section")
	}

	rows, err := s.queryVisible(ctx, filters, category == enums.ListingCategoryFlowers)
	if err != nil {
		return nil, err
	}

	cards := make([]ListingCardDTO, 0, len(rows))
	for i := range rows {
		if !rules.MatchesCategory(rows[i].Type, category) {
			continue
		}
		cards = append(cards, NewListingCardDTO(&rows[i]))
	}
	return s.capCards(cards, filters.Limit), nil
}

// SalesCatalog lists discounted listings only.
func (s *service) SalesCatalog(ctx context.Context, filters CatalogFilters) ([]ListingCardDTO, error) {
	rows, err := s.queryVisible(ctx, filters, false)
	if err != nil {
		return nil, err
	}

	cards := make([]ListingCardDTO, 0, len(rows))
	for i := range rows {
		if !rules.OnSalePage(&rows[i]) {
			continue
		}
		cards = append(cards, NewListingCardDTO(&rows[i]))
	}
	return s.capCards(cards, filters.Limit), nil
}

// LatestListings returns the newest visible listings for the home page.
func (s *service) LatestListings(ctx context.Context) ([]ListingCardDTO, error) {
	rows, err := s.queryVisible(ctx, CatalogFilters{}, false)
	if err != nil {
		return nil, err
	}

	limit := s.cfg.LatestLimit
	if limit <= 0 {
		limit = 9
	}
	cards := make([]ListingCardDTO, 0, limit)
	for i := range rows {
		if len(cards) == limit {
			break
		}
		cards = append(cards, NewListingCardDTO(&rows[i]))
	}
	return cards, nil
}

// GetListing backs the order form: the listing with its shop, regardless of
// staleness so an open link never dead-ends.
func (s *service) GetListing(ctx context.Context, listingID uuid.UUID) (*ListingDetailDTO, error) {
	listing, err := s.repo.FindDetail(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return NewListingDetailDTO(listing), nil
}

// MapShops aggregates visible listings into shop markers: one pin per shop
// with coordinates, carrying its cheapest matching listing.
func (s *service) MapShops(ctx context.Context, filters CatalogFilters) ([]ShopPinDTO, error) {
	rows, err := s.repo.ListCatalog(ctx, CatalogQuery{
		City:     filters.City,
		Name:     filters.Name,
		Type:     filters.Type,
		MaxPrice: filters.MaxPrice,
		WithShop: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query map listings")
	}
	visible := rules.FilterVisible(rows, rules.VisibilityFilter{
		Now:        s.now(),
		StaleAfter: s.cfg.StaleAfter,
	})

	pinIndex := map[uuid.UUID]int{}
	pins := make([]ShopPinDTO, 0)
	for i := range visible {
		listing := &visible[i]
		shop := listing.Shop
		if shop == nil || shop.Lat == nil || shop.Lng == nil {
			continue
		}

		price := rules.EffectivePrice(listing)
		idx, seen := pinIndex[shop.ID]
		if !seen {
			pinIndex[shop.ID] = len(pins)
			pins = append(pins, ShopPinDTO{
				ShopID:       shop.ID,
				ShopName:     shop.ShopName,
				City:         shop.City,
				Lat:          *shop.Lat,
				Lng:          *shop.Lng,
				MinPrice:     price,
				HasBouquets:  rules.IsBouquetLike(listing.Type),
				ListingCount: 1,
			})
			continue
		}

		pin := &pins[idx]
		pin.ListingCount++
		if price.LessThan(pin.MinPrice) {
			pin.MinPrice = price
		}
		if rules.IsBouquetLike(listing.Type) {
			pin.HasBouquets = true
		}
	}
	return pins, nil
}

// DebugSample exposes a handful of raw rows for the diagnostics endpoint.
func (s *service) DebugSample(ctx context.Context) ([]ListingDTO, error) {
	rows, err := s.repo.Sample(ctx, 5)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sample listings")
	}
	dtos := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewListingDTO(&rows[i]))
	}
	return dtos, nil
}

// CreateListing creates a seller's listing. The shop's city is copied onto
// the row so catalog filters never join through profiles.
func (s *service) CreateListing(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, input CreateListingInput) (*ListingDTO, error) {
	if err := rules.EnsureSeller(actorRole); err != nil {
		return nil, err
	}
	if err := validateListingInput(input.Name, input.Price, input.Stock, input.SalePrice); err != nil {
		return nil, err
	}

	shop, err := s.shops.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop profile")
	}

	listing := &models.Listing{
		ID:                 uuid.New(),
		ShopID:             actorID,
		Name:               strings.TrimSpace(input.Name),
		Type:               input.Type,
		Description:        input.Description,
		Price:              input.Price,
		Stock:              input.Stock,
		CompositionFlowers: pq.StringArray(input.CompositionFlowers),
		IsOnSale:           input.IsOnSale,
		SalePrice:          input.SalePrice,
		DiscountLabel:      input.DiscountLabel,
	}
	if shop.City != "" {
		city := shop.City
		listing.City = &city
	}
	rules.NormalizeSaleFields(listing)
	listing.IsActive = rules.ActiveForStock(listing.Stock)

	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert listing")
	}
	return NewListingDTO(created), nil
}

func (s *service) ListSellerListings(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole) ([]ListingDTO, error) {
	if err := rules.EnsureSeller(actorRole); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByShop(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop listings")
	}
	dtos := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewListingDTO(&rows[i]))
	}
	return dtos, nil
}

// UpdateListing applies a partial edit. Sale fields are re-normalized and the
// active flag re-derived from stock on every write.
func (s *service) UpdateListing(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, listingID uuid.UUID, input UpdateListingInput) (*ListingDTO, error) {
	listing, err := s.loadOwnListing(ctx, actorID, actorRole, listingID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		listing.Name = name
	}
	if input.Type != nil {
		listing.Type = input.Type
	}
	if input.Description != nil {
		listing.Description = input.Description
	}
	if input.Price != nil {
		if !input.Price.GreaterThan(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		listing.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
		}
		listing.Stock = *input.Stock
	}
	if input.CompositionFlowers != nil {
		listing.CompositionFlowers = pq.StringArray(*input.CompositionFlowers)
	}
	if input.SalePrice != nil {
		if input.SalePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price must be non-negative")
		}
		listing.SalePrice = input.SalePrice
	}
	if input.DiscountLabel != nil {
		listing.DiscountLabel = input.DiscountLabel
	}
	if input.IsOnSale != nil {
		listing.IsOnSale = *input.IsOnSale
	}

	rules.NormalizeSaleFields(listing)
	listing.IsActive = rules.ActiveForStock(listing.Stock)

	saved, err := s.repo.Save(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save listing")
	}
	return NewListingDTO(saved), nil
}

// UploadPhoto stores the image and stamps the freshness timestamp, which
// restarts the listing's staleness window.
func (s *service) UploadPhoto(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, listingID uuid.UUID, contentType string, data io.Reader) (*ListingDTO, error) {
	if data == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "photo payload required")
	}
	listing, err := s.loadOwnListing(ctx, actorID, actorRole, listingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	objectName := fmt.Sprintf("%s/%s-%d", listing.ShopID, listing.ID, now.Unix())
	url, err := s.photos.Upload(ctx, objectName, contentType, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload photo")
	}

	listing.Photo = &url
	listing.PhotoUpdatedAt = &now
	saved, err := s.repo.Save(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save listing photo")
	}
	return NewListingDTO(saved), nil
}

func (s *service) DeleteListing(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, listingID uuid.UUID) error {
	listing, err := s.loadOwnListing(ctx, actorID, actorRole, listingID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, listing.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	return nil
}

func (s *service) loadOwnListing(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, listingID uuid.UUID) (*models.Listing, error) {
	if err := rules.EnsureSeller(actorRole); err != nil {
		return nil, err
	}
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if err := rules.EnsureOwnShop(actorID.String(), listing.ShopID.String()); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *service) queryVisible(ctx context.Context, filters CatalogFilters, requireActive bool) ([]models.Listing, error) {
	rows, err := s.repo.ListCatalog(ctx, CatalogQuery{
		City:     filters.City,
		Name:     filters.Name,
		Type:     filters.Type,
		MaxPrice: filters.MaxPrice,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query catalog")
	}
	return rules.FilterVisible(rows, rules.VisibilityFilter{
		Now:           s.now(),
		StaleAfter:    s.cfg.StaleAfter,
		RequireActive: requireActive,
	}), nil
}

func (s *service) capCards(cards []ListingCardDTO, limit int) []ListingCardDTO {
	if limit > 0 && len(cards) > limit {
		return cards[:limit]
	}
	return cards
}

func validateListingInput(name string, price decimal.Decimal, stock int, salePrice *decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !price.GreaterThan(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	if salePrice != nil && salePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be non-negative")
	}
	return nil
}
