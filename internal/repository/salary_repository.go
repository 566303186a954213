package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/factory-ops/internal/domain"
)

// SalaryRepository persists per-employee salary records.
type SalaryRepository interface {
	Create(ctx context.Context, salary *domain.Salary) error
	Update(ctx context.Context, salary *domain.Salary) error
	GetByID(ctx context.Context, id string) (*domain.Salary, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Salary, error)
	List(ctx context.Context, limit, offset int) ([]domain.Salary, error)
}

type salaryRepository struct {
	pool *pgxpool.Pool
}

// NewSalaryRepository returns a Postgres-backed implementation.
func NewSalaryRepository(pool *pgxpool.Pool) SalaryRepository {
	return &salaryRepository{pool: pool}
}

func (r *salaryRepository) Create(ctx context.Context, salary *domain.Salary) error {
	const query = `
        INSERT INTO salaries (id, employee_id, amount_cents, currency, effective_from)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		salary.ID,
		salary.EmployeeID,
		salary.AmountCents,
		salary.Currency,
		salary.EffectiveFrom,
	).Scan(&salary.CreatedAt, &salary.UpdatedAt)
}

func (r *salaryRepository) Update(ctx context.Context, salary *domain.Salary) error {
	const query = `
        UPDATE salaries SET amount_cents=$1, currency=$2, effective_from=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		salary.AmountCents,
		salary.Currency,
		salary.EffectiveFrom,
		salary.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *salaryRepository) GetByID(ctx context.Context, id string) (*domain.Salary, error) {
	const query = `
        SELECT id, employee_id, amount_cents, currency, effective_from, created_at, updated_at
        FROM salaries WHERE id=$1`

	var salary domain.Salary
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&salary.ID,
		&salary.EmployeeID,
		&salary.AmountCents,
		&salary.Currency,
		&salary.EffectiveFrom,
		&salary.CreatedAt,
		&salary.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &salary, nil
}

func (r *salaryRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Salary, error) {
	const query = `
        SELECT id, employee_id, amount_cents, currency, effective_from, created_at, updated_at
        FROM salaries WHERE employee_id=$1 ORDER BY effective_from DESC`

	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSalaries(rows)
}

func (r *salaryRepository) List(ctx context.Context, limit, offset int) ([]domain.Salary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, employee_id, amount_cents, currency, effective_from, created_at, updated_at
        FROM salaries ORDER BY effective_from DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSalaries(rows)
}

func scanSalaries(rows pgx.Rows) ([]domain.Salary, error) {
	var result []domain.Salary
	for rows.Next() {
		var salary domain.Salary
		if err := rows.Scan(
			&salary.ID,
			&salary.EmployeeID,
			&salary.AmountCents,
			&salary.Currency,
			&salary.EffectiveFrom,
			&salary.CreatedAt,
			&salary.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, salary)
	}
	return result, rows.Err()
}
