package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/factory-ops/internal/directory"
	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/repository"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// SalaryService is thin CRUD over salary records. Amounts are stored as
// supplied; there is no payroll arithmetic server-side.
type SalaryService struct {
	salaries  repository.SalaryRepository
	directory directory.Directory
}

// NewSalaryService constructs the service.
func NewSalaryService(salaries repository.SalaryRepository, dir directory.Directory) *SalaryService {
	return &SalaryService{salaries: salaries, directory: dir}
}

// SalaryInput describes create/update payloads.
type SalaryInput struct {
	EmployeeID    string
	AmountCents   int64
	Currency      string
	EffectiveFrom time.Time
}

// Create records a salary for an existing employee.
func (s *SalaryService) Create(ctx context.Context, input SalaryInput) (*domain.Salary, error) {
	if input.EmployeeID == "" || input.AmountCents <= 0 || input.EffectiveFrom.IsZero() {
		return nil, apperrors.NewValidationError("employee_id, amount_cents and effective_from are required", nil)
	}

	profile, err := s.directory.Lookup(ctx, input.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !profile.Role.EmployeeRole() {
		return nil, apperrors.NewValidationError("salary subject must be an employee", map[string]any{"employee_id": input.EmployeeID})
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	salary := &domain.Salary{
		ID:            uuid.NewString(),
		EmployeeID:    input.EmployeeID,
		AmountCents:   input.AmountCents,
		Currency:      currency,
		EffectiveFrom: input.EffectiveFrom,
	}
	if err := s.salaries.Create(ctx, salary); err != nil {
		return nil, apperrors.MapError(err)
	}
	return salary, nil
}

// List returns salary records, most recent first. When employeeID is
// non-empty the listing narrows to that employee.
func (s *SalaryService) List(ctx context.Context, employeeID string, limit, offset int) ([]domain.Salary, error) {
	var (
		salaries []domain.Salary
		err      error
	)
	if employeeID != "" {
		salaries, err = s.salaries.ListByEmployee(ctx, employeeID)
	} else {
		salaries, err = s.salaries.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return salaries, nil
}

// Update changes amount, currency or effective date.
func (s *SalaryService) Update(ctx context.Context, id string, input SalaryInput) (*domain.Salary, error) {
	salary, err := s.salaries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("salary", map[string]any{"salary_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if input.AmountCents > 0 {
		salary.AmountCents = input.AmountCents
	}
	if input.Currency != "" {
		salary.Currency = input.Currency
	}
	if !input.EffectiveFrom.IsZero() {
		salary.EffectiveFrom = input.EffectiveFrom
	}

	if err := s.salaries.Update(ctx, salary); err != nil {
		return nil, apperrors.MapError(err)
	}
	return salary, nil
}
