package domain

// User roles
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Roles lists every valid role
var Roles = []string{RoleEmployee, RoleManager, RoleAdmin}

// IsValidRole checks if role is a member of the role set
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsPrivilegedReviewer returns true for roles with cross-user read access.
// This is the single place the manager/admin check lives.
func IsPrivilegedReviewer(role string) bool {
	return role == RoleManager || role == RoleAdmin
}

// Refund categories
const (
	CategoryTransport     = "transport"
	CategoryFood          = "food"
	CategoryAccommodation = "accommodation"
	CategoryServices      = "services"
	CategoryOthers        = "others"
)

// Categories lists every valid refund category
var Categories = []string{
	CategoryTransport,
	CategoryFood,
	CategoryAccommodation,
	CategoryServices,
	CategoryOthers,
}

// IsValidCategory checks if category is a member of the category enum
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Identity is the authenticated identity derived from a verified token.
// It exists for the request's lifetime only and is passed explicitly into
// services, never read from globals.
type Identity struct {
	UserID uint
	Role   string
}

// IsPrivileged reports whether the identity can read refunds across users
func (i Identity) IsPrivileged() bool {
	return IsPrivilegedReviewer(i.Role)
}
