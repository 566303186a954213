package domain

import "time"

// Expense records an operational cost. Expenses are soft-deleted: DeletedAt
// marks removal and listings exclude deleted rows, unlike tasks which are
// hard-deleted.
type Expense struct {
	ID          string
	Category    string
	Description string
	AmountCents int64
	IncurredOn  time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
