package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/factory-ops/internal/auth"
	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/repository"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// EmployeeService is thin CRUD over internal personnel (admin, manager,
// staff). Customer accounts are managed by CustomerService.
type EmployeeService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewEmployeeService constructs the service.
func NewEmployeeService(users repository.UserRepository, bcryptCost int) *EmployeeService {
	return &EmployeeService{users: users, bcryptCost: bcryptCost}
}

// EmployeeInput describes create/update payloads.
type EmployeeInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Create adds an employee. The role is parsed at the boundary and must be
// an employee role; customer accounts cannot be minted here.
func (s *EmployeeService) Create(ctx context.Context, input EmployeeInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	role, ok := domain.ParseRole(input.Role)
	if !ok || !role.EmployeeRole() {
		return nil, apperrors.NewValidationError("invalid employee role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Get fetches one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns employees, newest first.
func (s *EmployeeService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	filter := repository.UserFilter{
		Roles:  []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleStaff},
		Limit:  limit,
		Offset: offset,
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Update changes name, email, role and optionally password.
func (s *EmployeeService) Update(ctx context.Context, id string, input EmployeeInput) (*domain.User, error) {
	user, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		user.Email = email
	}
	if input.Role != "" {
		role, ok := domain.ParseRole(input.Role)
		if !ok || !role.EmployeeRole() {
			return nil, apperrors.NewValidationError("invalid employee role", map[string]any{"role": input.Role})
		}
		user.Role = role
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes an employee account.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.getEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *EmployeeService) getEmployee(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Role.EmployeeRole() {
		return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
	}
	return user, nil
}
