package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/factory-ops/internal/domain"
)

// ExpenseRepository persists expense records. Deletion is soft: rows keep a
// deleted_at timestamp and listings exclude them.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	Update(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]domain.Expense, error)
}

type expenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository returns a Postgres-backed implementation.
func NewExpenseRepository(pool *pgxpool.Pool) ExpenseRepository {
	return &expenseRepository{pool: pool}
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	const query = `
        INSERT INTO expenses (id, category, description, amount_cents, incurred_on, created_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		expense.ID,
		expense.Category,
		expense.Description,
		expense.AmountCents,
		expense.IncurredOn,
		expense.CreatedBy,
	).Scan(&expense.CreatedAt, &expense.UpdatedAt)
}

func (r *expenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	const query = `
        UPDATE expenses SET category=$1, description=$2, amount_cents=$3, incurred_on=$4, updated_at=NOW()
        WHERE id=$5 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query,
		expense.Category,
		expense.Description,
		expense.AmountCents,
		expense.IncurredOn,
		expense.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	const query = `
        SELECT id, category, description, amount_cents, incurred_on, created_by,
               created_at, updated_at, deleted_at
        FROM expenses WHERE id=$1 AND deleted_at IS NULL`

	var expense domain.Expense
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&expense.ID,
		&expense.Category,
		&expense.Description,
		&expense.AmountCents,
		&expense.IncurredOn,
		&expense.CreatedBy,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&expense.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE expenses SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *expenseRepository) List(ctx context.Context, limit, offset int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, category, description, amount_cents, incurred_on, created_by,
               created_at, updated_at, deleted_at
        FROM expenses WHERE deleted_at IS NULL
        ORDER BY incurred_on DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(
			&expense.ID,
			&expense.Category,
			&expense.Description,
			&expense.AmountCents,
			&expense.IncurredOn,
			&expense.CreatedBy,
			&expense.CreatedAt,
			&expense.UpdatedAt,
			&expense.DeletedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, expense)
	}
	return result, rows.Err()
}
