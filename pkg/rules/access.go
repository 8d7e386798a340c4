package rules

import (
	"github.com/kvitkova/kvitkova-backend/pkg/enums"
	pkgerrors "github.com/kvitkova/kvitkova-backend/pkg/errors"
)

// CanSell reports whether the role may manage listings and seller orders.
func CanSell(role enums.ProfileRole) bool {
	return role == enums.ProfileRoleSeller
}

// CanAdministrate reports whether the role may review pending shops.
func CanAdministrate(role enums.ProfileRole) bool {
	return role == enums.ProfileRoleAdmin
}

// EnsureSeller gates seller-only operations. Pending and rejected shops get a
// message naming their standing so the dashboard can route them.
func EnsureSeller(role enums.ProfileRole) error {
	switch role {
	case enums.ProfileRoleSeller:
		return nil
	case enums.ProfileRolePending:
		return pkgerrors.New(pkgerrors.CodeForbidden, "shop is awaiting approval")
	case enums.ProfileRoleRejected:
		return pkgerrors.New(pkgerrors.CodeForbidden, "shop application was rejected")
	case "":
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "seller account required")
	}
}

// EnsureAdmin gates administrative operations.
func EnsureAdmin(role enums.ProfileRole) error {
	if role == enums.ProfileRoleAdmin {
		return nil
	}
	if role == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "admin account required")
}

// EnsureOwnShop rejects cross-shop access to seller resources. The resource's
// owning shop must match the authenticated seller.
func EnsureOwnShop(actorShopID, resourceShopID string) error {
	if actorShopID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actorShopID != resourceShopID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "resource belongs to another shop")
	}
	return nil
}
