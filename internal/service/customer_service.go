package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/repository"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

// CustomerService is thin CRUD over customer accounts. Creation happens
// via self-registration in AuthService.
type CustomerService struct {
	users repository.UserRepository
}

// NewCustomerService constructs the service.
func NewCustomerService(users repository.UserRepository) *CustomerService {
	return &CustomerService{users: users}
}

// List returns customers, newest first.
func (s *CustomerService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	filter := repository.UserFilter{
		Roles:  []domain.Role{domain.RoleCustomer},
		Limit:  limit,
		Offset: offset,
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get fetches one customer.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getCustomer(ctx, id)
}

// Update changes name and email.
func (s *CustomerService) Update(ctx context.Context, id, name, email string) (*domain.User, error) {
	user, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		user.Email = email
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes a customer account.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if _, err := s.getCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CustomerService) getCustomer(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if user.Role != domain.RoleCustomer {
		return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
	}
	return user, nil
}
