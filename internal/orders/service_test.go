package orders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newOrderService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	logg := logger.New(logger.Options{ServiceName: "orders-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Tx:     gormTxRunner{db: db},
		Logger: logg,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, db
}

func TestCreateOrderMovesNoStock(t *testing.T) {
	svc, repo, db := newOrderService(t)
	ctx := context.Background()

	shop := mustCreateShop(t, db)
	listing := mustCreateListing(t, db, shop.ID, 5)

	dto, err := svc.CreateOrder(ctx, CreateOrderInput{
		ListingID:  listing.ID,
		BuyerName:  "Оксана",
		BuyerPhone: "+380671234567",
		Quantity:   3,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if dto.Status != enums.OrderStatusNew {
		t.Fatalf("expected status new, got %s", dto.Status)
	}
	if dto.ShopID != shop.ID {
		t.Fatalf("expected shop id denormalized from listing, got %s", dto.ShopID)
	}

	reloaded, err := repo.FindListing(ctx, listing.ID)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if reloaded.Stock != 5 || reloaded.SoldCount != 0 {
		t.Fatalf("expected stock untouched by order creation, got stock=%d sold=%d", reloaded.Stock, reloaded.SoldCount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, db := newOrderService(t)
	ctx := context.Background()

	shop := mustCreateShop(t, db)
	listing := mustCreateListing(t, db, shop.ID, 2)

	cases := []struct {
		name  string
		input CreateOrderInput
	}{
		{
			name:  "missing name",
			input: CreateOrderInput{ListingID: listing.ID, BuyerPhone: "+380671234567", Quantity: 1},
		},
		{
			name:  "missing phone",
			input: CreateOrderInput{ListingID: listing.ID, BuyerName: "Оксана", Quantity: 1},
		},
		{
			name:  "zero quantity",
			input: CreateOrderInput{ListingID: listing.ID, BuyerName: "Оксана", BuyerPhone: "+380671234567"},
		},
		{
			name:  "quantity exceeds stock",
			input: CreateOrderInput{ListingID: listing.ID, BuyerName: "Оксана", BuyerPhone: "+380671234567", Quantity: 3},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	t.Run("unknown listing", func(t *testing.T) {
		_, err := svc.CreateOrder(ctx, CreateOrderInput{
			ListingID:  uuid.New(),
			BuyerName:  "Оксана",
			BuyerPhone: "+380671234567",
			Quantity:   1,
		})
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestUpdateStatusInventoryChain(t *testing.T) {
	svc, repo, db := newOrderService(t)
	ctx := context.Background()

	shop := mustCreateShop(t, db)
	listing := mustCreateListing(t, db, shop.ID, 5)
	order := mustCreateOrder(t, repo, listing, enums.OrderStatusNew, 3, time.Time{})

	assertCounters := func(t *testing.T, stock, sold int, active bool) {
		t.Helper()
		reloaded, err := repo.FindListing(ctx, listing.ID)
		if err != nil {
			t.Fatalf("reload listing: %v", err)
		}
		if reloaded.Stock != stock || reloaded.SoldCount != sold || reloaded.IsActive != active {
			t.Fatalf("expected stock=%d sold=%d active=%v, got stock=%d sold=%d active=%v",
				stock, sold, active, reloaded.Stock, reloaded.SoldCount, reloaded.IsActive)
		}
	}

	res, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, order.ID, enums.OrderStatusInProgress)
	if err != nil {
		t.Fatalf("take into work: %v", err)
	}
	if res.Warning != "" {
		t.Fatalf("unexpected warning: %q", res.Warning)
	}
	assertCounters(t, 2, 3, true)

	// Crossing between two committed statuses moves nothing.
	if _, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, order.ID, enums.OrderStatusDone); err != nil {
		t.Fatalf("complete: %v", err)
	}
	assertCounters(t, 2, 3, true)

	if _, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, order.ID, enums.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	assertCounters(t, 5, 0, true)
}

func TestUpdateStatusDeactivatesAtZeroStock(t *testing.T) {
	svc, repo, db := newOrderService(t)
	ctx := context.Background()

	shop := mustCreateShop(t, db)
	listing := mustCreateListing(t, db, shop.ID, 1)
	order := mustCreateOrder(t, repo, listing, enums.OrderStatusNew, 1, time.Time{})

	if _, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, order.ID, enums.OrderStatusDone); err != nil {
		t.Fatalf("complete: %v", err)
	}

	reloaded, err := repo.FindListing(ctx, listing.ID)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if reloaded.Stock != 0 || reloaded.IsActive {
		t.Fatalf("expected sold-out inactive listing, got stock=%d active=%v", reloaded.Stock, reloaded.IsActive)
	}
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	svc, repo, db := newOrderService(t)
	ctx := context.Background()

	shop := mustCreateShop(t, db)
	listing := mustCreateListing(t, db, shop.ID, 5)
	order := mustCreateOrder(t, repo, listing, enums.OrderStatusInProgress, 2, time.Time{})

	res, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, order.ID, enums.OrderStatusInProgress)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if res.Order.Status != enums.OrderStatusInProgress {
		t.Fatalf("expected status unchanged, got %s", res.Order.Status)
	}

	reloaded, err := repo.FindListing(ctx, listing.ID)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if reloaded.Stock != 5 || reloaded.SoldCount != 0 {
		t.Fatalf("expected no ledger application on same-status write, got stock=%d sold=%d", reloaded.Stock, reloaded.SoldCount)
	}
}

func TestUpdateStatusGuards(t *testing.T) {
	svc, repo, db := newOrderService(t)
	ctx := context.Background()

	shop := mustCreateShop(t, db)
	listing := mustCreateListing(t, db, shop.ID, 5)

	t.Run("cancelled is terminal", func(t *testing.T) {
		order := mustCreateOrder(t, repo, listing, enums.OrderStatusCancelled, 1, time.Time{})
		_, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, order.ID, enums.OrderStatusNew)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
	})

	t.Run("foreign shop", func(t *testing.T) {
		order := mustCreateOrder(t, repo, listing, enums.OrderStatusNew, 1, time.Time{})
		intruder := mustCreateShop(t, db)
		_, err := svc.UpdateStatus(ctx, intruder.ID, enums.ProfileRoleSeller, order.ID, enums.OrderStatusDone)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("non-seller", func(t *testing.T) {
		order := mustCreateOrder(t, repo, listing, enums.OrderStatusNew, 1, time.Time{})
		_, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRolePending, order.ID, enums.OrderStatusDone)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		order := mustCreateOrder(t, repo, listing, enums.OrderStatusNew, 1, time.Time{})
		_, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, order.ID, "shipped")
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, uuid.New(), enums.OrderStatusDone)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestUpdateStatusWarnsWhenListingGone(t *testing.T) {
	svc, repo, db := newOrderService(t)
	ctx := context.Background()

	shop := mustCreateShop(t, db)
	listing := mustCreateListing(t, db, shop.ID, 5)
	order := mustCreateOrder(t, repo, listing, enums.OrderStatusNew, 2, time.Time{})

	if err := db.Delete(&models.Listing{}, "id = ?", listing.ID).Error; err != nil {
		t.Fatalf("delete listing: %v", err)
	}

	res, err := svc.UpdateStatus(ctx, shop.ID, enums.ProfileRoleSeller, order.ID, enums.OrderStatusInProgress)
	if err != nil {
		t.Fatalf("expected partial success, got error %v", err)
	}
	if res.Order.Status != enums.OrderStatusInProgress {
		t.Fatalf("expected status write to stick, got %s", res.Order.Status)
	}
	if res.Warning == "" {
		t.Fatal("expected inventory warning on listing load failure")
	}

	reloaded, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != enums.OrderStatusInProgress {
		t.Fatalf("expected persisted status in_progress, got %s", reloaded.Status)
	}
}
