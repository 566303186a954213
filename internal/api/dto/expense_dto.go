package dto

import "time"

// CreateExpenseRequest payload.
type CreateExpenseRequest struct {
	Category    string `json:"category" validate:"required"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	IncurredOn  string `json:"incurred_on" validate:"required"`
}

// UpdateExpenseRequest payload; zero-valued fields are left unchanged.
type UpdateExpenseRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents" validate:"omitempty,gt=0"`
	IncurredOn  string `json:"incurred_on"`
}

// ExpenseResponse is the wire shape for an expense.
type ExpenseResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	IncurredOn  time.Time `json:"incurred_on"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSalaryRequest payload.
type CreateSalaryRequest struct {
	EmployeeID    string `json:"employee_id" validate:"required"`
	AmountCents   int64  `json:"amount_cents" validate:"required,gt=0"`
	Currency      string `json:"currency"`
	EffectiveFrom string `json:"effective_from" validate:"required"`
}

// UpdateSalaryRequest payload; zero-valued fields are left unchanged.
type UpdateSalaryRequest struct {
	AmountCents   int64  `json:"amount_cents" validate:"omitempty,gt=0"`
	Currency      string `json:"currency"`
	EffectiveFrom string `json:"effective_from"`
}

// SalaryResponse is the wire shape for a salary record.
type SalaryResponse struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	EffectiveFrom time.Time `json:"effective_from"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
