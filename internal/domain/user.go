package domain

import "time"

// User is the domain model for everyone who can authenticate: employees
// (admin, manager, staff) and customers share one identity space,
// distinguished by Role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
