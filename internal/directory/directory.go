// Package directory provides read-only identity lookups (display name,
// role) used when tasks are created or assigned. Lookups go through a Redis
// cache; cache failures degrade to direct database reads.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/factory-ops/internal/domain"
	"github.com/spec-kit/factory-ops/internal/repository"
	apperrors "github.com/spec-kit/factory-ops/pkg/util"
)

const keyPrefix = "directory:user:"

// Profile is the subset of identity facts the directory exposes.
type Profile struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// Directory resolves a user's profile by id.
type Directory interface {
	Lookup(ctx context.Context, id string) (*Profile, error)
}

type cachedDirectory struct {
	users  repository.UserRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New builds a directory over the user repository with a Redis cache in
// front. cache may be nil, in which case every lookup hits the database.
func New(users repository.UserRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) Directory {
	return &cachedDirectory{users: users, cache: cache, ttl: ttl, logger: logger}
}

func (d *cachedDirectory) Lookup(ctx context.Context, id string) (*Profile, error) {
	if profile := d.fromCache(ctx, id); profile != nil {
		return profile, nil
	}

	user, err := d.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	profile := &Profile{ID: user.ID, Name: user.Name, Role: user.Role}
	d.store(ctx, profile)
	return profile, nil
}

func (d *cachedDirectory) fromCache(ctx context.Context, id string) *Profile {
	if d.cache == nil {
		return nil
	}
	raw, err := d.cache.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.logger.Debug("directory cache read failed", zap.Error(err))
		}
		return nil
	}
	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		d.logger.Debug("directory cache entry corrupt", zap.String("user_id", id), zap.Error(err))
		return nil
	}
	return &profile
}

func (d *cachedDirectory) store(ctx context.Context, profile *Profile) {
	if d.cache == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, keyPrefix+profile.ID, raw, d.ttl).Err(); err != nil {
		d.logger.Debug("directory cache write failed", zap.Error(err))
	}
}
