package domain

import "time"

// Salary is a per-employee compensation record. Amounts are stored as
// supplied; no payroll arithmetic happens server-side.
type Salary struct {
	ID            string
	EmployeeID    string
	AmountCents   int64
	Currency      string
	EffectiveFrom time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
