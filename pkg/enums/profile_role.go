package enums

import "fmt"

// ProfileRole represents the account standing of a marketplace profile.
// Sellers start as pending until an administrator approves the shop.
type ProfileRole string

const (
	ProfileRolePending  ProfileRole = "pending"
	ProfileRoleSeller   ProfileRole = "seller"
	ProfileRoleRejected ProfileRole = "rejected"
	ProfileRoleBuyer    ProfileRole = "buyer"
	ProfileRoleAdmin    ProfileRole = "admin"
)

var validProfileRoles = []ProfileRole{
	ProfileRolePending,
	ProfileRoleSeller,
	ProfileRoleRejected,
	ProfileRoleBuyer,
	ProfileRoleAdmin,
}

// String implements fmt.Stringer.
func (p ProfileRole) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProfileRole.
func (p ProfileRole) IsValid() bool {
	for _, candidate := range validProfileRoles {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProfileRole converts raw input into a ProfileRole.
func ParseProfileRole(value string) (ProfileRole, error) {
	for _, candidate := range validProfileRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile role %q", value)
}
