package directory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/repository"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

type stubUsers struct {
	users map[string]domain.User
	calls int
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.calls++
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (s *stubUsers) Create(context.Context, *domain.User) error  { return nil }
func (s *stubUsers) Update(context.Context, *domain.User) error  { return nil }
func (s *stubUsers) Delete(context.Context, string) error        { return nil }
func (s *stubUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubUsers) List(context.Context, repository.UserFilter) ([]domain.User, error) {
	return nil, nil
}

func newCacheClient(t *testing.T) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: server.Addr()})
}

func TestLookupCachesProfile(t *testing.T) {
	users := &stubUsers{users: map[string]domain.User{
		"u-1": {ID: "u-1", Name: "Priya Rao", Role: domain.RoleCustomer},
	}}
	dir := New(users, newCacheClient(t), time.Minute, zap.NewNop())
	ctx := context.Background()

	profile, err := dir.Lookup(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Priya Rao", profile.Name)
	assert.Equal(t, domain.RoleCustomer, profile.Role)
	assert.Equal(t, 1, users.calls)

	// second lookup is served from the cache even after the row disappears
	delete(users.users, "u-1")
	profile, err = dir.Lookup(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Priya Rao", profile.Name)
	assert.Equal(t, 1, users.calls)
}

func TestLookupUnknownUser(t *testing.T) {
	dir := New(&stubUsers{users: map[string]domain.User{}}, newCacheClient(t), time.Minute, zap.NewNop())

	_, err := dir.Lookup(context.Background(), "ghost")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestLookupWithoutCache(t *testing.T) {
	users := &stubUsers{users: map[string]domain.User{
		"u-1": {ID: "u-1", Name: "Priya Rao", Role: domain.RoleCustomer},
	}}
	dir := New(users, nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := dir.Lookup(ctx, "u-1")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, users.calls)
}

// A down cache must not break lookups.
func TestLookupCacheUnavailable(t *testing.T) {
	users := &stubUsers{users: map[string]domain.User{
		"u-1": {ID: "u-1", Name: "Priya Rao", Role: domain.RoleStaff},
	}}
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()

	dir := New(users, client, time.Minute, zap.NewNop())
	profile, err := dir.Lookup(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Priya Rao", profile.Name)
}

func TestLookupIgnoresCorruptCacheEntry(t *testing.T) {
	users := &stubUsers{users: map[string]domain.User{
		"u-1": {ID: "u-1", Name: "Priya Rao", Role: domain.RoleCustomer},
	}}
	server := miniredis.RunT(t)
	require.NoError(t, server.Set("directory:user:u-1", "{not json"))

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	dir := New(users, client, time.Minute, zap.NewNop())

	profile, err := dir.Lookup(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Priya Rao", profile.Name)
	assert.Equal(t, 1, users.calls)
}
