package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kvitkova/kvitkova-backend/pkg/db/models"
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
	"github.com/kvitkova/kvitkova-backend/pkg/rules"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stockWarning is surfaced alongside a successful status change when the
// listing row could not be adjusted afterwards.
const stockWarning = "status updated, inventory not adjusted"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes buyer order placement and the seller's order workflow.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	ListSellerOrders(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, tab OrderTab) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, orderID uuid.UUID, next enums.OrderStatus) (*StatusChangeResult, error)
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Logger *logger.Logger
}

// NewService constructs an order service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo: params.Repo,
		tx:   params.Tx,
		logg: params.Logger,
	}, nil
}

// CreateOrder places a buyer order. Creation never moves stock: a new order
// holds nothing until the seller takes it into work.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	if strings.TrimSpace(input.BuyerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer name required")
	}
	if strings.TrimSpace(input.BuyerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer phone required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	listing, err := s.repo.FindListing(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if input.Quantity > listing.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock").
			WithDetails(map[string]any{"stock": listing.Stock})
	}

	order := &models.Order{
		ID:         uuid.New(),
		ListingID:  listing.ID,
		ShopID:     listing.ShopID,
		BuyerName:  strings.TrimSpace(input.BuyerName),
		BuyerPhone: strings.TrimSpace(input.BuyerPhone),
		BuyerEmail: input.BuyerEmail,
		Comment:    input.Comment,
		Quantity:   input.Quantity,
		Status:     enums.OrderStatusNew,
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
	}
	created.Listing = listing
	return FromModel(created), nil
}

func (s *service) ListSellerOrders(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, tab OrderTab) ([]OrderDTO, error) {
	if err := rules.EnsureSeller(actorRole); err != nil {
		return nil, err
	}
	statuses := tab.Statuses()
	if statuses == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tab must be active or done")
	}

	rows, err := s.repo.ListByShop(ctx, actorID, statuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// UpdateStatus moves an order through the seller workflow and applies the
// implied inventory movement exactly once. A listing failure after the
// status write does not fail the call: the status sticks and the caller gets
// a warning instead.
func (s *service) UpdateStatus(ctx context.Context, actorID uuid.UUID, actorRole enums.ProfileRole, orderID uuid.UUID, next enums.OrderStatus) (*StatusChangeResult, error) {
	if err := rules.EnsureSeller(actorRole); err != nil {
		return nil, err
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var result StatusChangeResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := rules.EnsureOwnShop(actorID.String(), order.ShopID.String()); err != nil {
			return err
		}

		prev := order.Status
		if prev == next {
			result.Order = FromModel(order)
			return nil
		}
		if err := rules.EnsureTransition(prev, next); err != nil {
			return err
		}

		if err := repo.UpdateStatus(ctx, order.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = next
		result.Order = FromModel(order)

		adj := rules.AdjustmentFor(prev, next, order.Quantity)
		if !adj.Changed() {
			return nil
		}

		listing, err := repo.FindListing(ctx, order.ListingID)
		if err != nil {
			s.logg.Warn(ctx, "order status updated but listing load failed: "+err.Error())
			result.Warning = stockWarning
			return nil
		}

		stock, sold := rules.ApplyAdjustment(listing.Stock, listing.SoldCount, adj)
		active := rules.ActiveForStock(stock)
		if err := repo.UpdateListingCounters(ctx, listing.ID, stock, sold, active); err != nil {
			s.logg.Warn(ctx, "order status updated but listing adjustment failed: "+err.Error())
			result.Warning = stockWarning
			return nil
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return &result, nil
}
