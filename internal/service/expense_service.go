package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/repository"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// ExpenseService is thin CRUD over expense records. Unlike tasks, deleted
// expenses are retained with a deletion marker.
type ExpenseService struct {
	expenses repository.ExpenseRepository
}

// NewExpenseService constructs the service.
func NewExpenseService(expenses repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

// ExpenseInput describes create/update payloads.
type ExpenseInput struct {
	Category    string
	Description string
	AmountCents int64
	IncurredOn  time.Time
}

// Create records an expense on behalf of the acting employee.
func (s *ExpenseService) Create(ctx context.Context, actor domain.Actor, input ExpenseInput) (*domain.Expense, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" || input.AmountCents <= 0 || input.IncurredOn.IsZero() {
		return nil, apperrors.NewValidationError("category, amount_cents and incurred_on are required", nil)
	}

	expense := &domain.Expense{
		ID:          uuid.NewString(),
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		AmountCents: input.AmountCents,
		IncurredOn:  input.IncurredOn,
		CreatedBy:   actor.ID,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, apperrors.MapError(err)
	}
	return expense, nil
}

// Get fetches one expense; soft-deleted rows behave as missing.
func (s *ExpenseService) Get(ctx context.Context, id string) (*domain.Expense, error) {
	return s.getExpense(ctx, id)
}

// List returns live expenses, most recent first.
func (s *ExpenseService) List(ctx context.Context, limit, offset int) ([]domain.Expense, error) {
	expenses, err := s.expenses.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return expenses, nil
}

// Update changes an expense in place.
func (s *ExpenseService) Update(ctx context.Context, id string, input ExpenseInput) (*domain.Expense, error) {
	expense, err := s.getExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if category := strings.TrimSpace(input.Category); category != "" {
		expense.Category = category
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		expense.Description = desc
	}
	if input.AmountCents > 0 {
		expense.AmountCents = input.AmountCents
	}
	if !input.IncurredOn.IsZero() {
		expense.IncurredOn = input.IncurredOn
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, apperrors.MapError(err)
	}
	return expense, nil
}

// Delete soft-deletes an expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.expenses.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("expense", map[string]any{"expense_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ExpenseService) getExpense(ctx context.Context, id string) (*domain.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("expense", map[string]any{"expense_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return expense, nil
}
