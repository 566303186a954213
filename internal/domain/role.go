package domain

import "strings"

// Role enumerates caller roles across the platform. Role values are stored
// and compared lowercase; ParseRole is the single place raw input becomes a
// Role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// ParseRole normalizes a raw role value into the closed enum. Normalization
// is idempotent: parsing an already-lowercase role returns it unchanged.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleStaff:
		return RoleStaff, true
	case RoleCustomer:
		return RoleCustomer, true
	default:
		return "", false
	}
}

// Elevated reports whether the role carries admin or manager privilege.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// EmployeeRole reports whether the role belongs to internal personnel.
func (r Role) EmployeeRole() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	ID    string
	Role  Role
	Email string
}
