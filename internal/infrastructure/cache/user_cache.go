package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/oksasatya/hello-birthday/internal/domain/entity"
	"github.com/oksasatya/hello-birthday/internal/domain/repository"
	"github.com/oksasatya/hello-birthday/pkg/helpers"
)

const (
	keyPrefix     = "user:dob:"
	versionPrefix = "user:dob:ver:"
	lookupTimeout = 3 * time.Second
)

// cachedUser is the redis representation of a user record.
type cachedUser struct {
	Username    string    `json:"username"`
	DateOfBirth string    `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserRepository is a read-through redis cache in front of another
// repository. Redis failures are logged and bypassed.
//
// Entries are keyed by a per-user version that Upsert increments after the
// store write. A lookup that started before the write can only fill the
// entry of the old version, which no later lookup reads.
type UserRepository struct {
	next   repository.UserRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
	sf     singleflight.Group
}

// NewUserRepository wraps next. A nil rdb disables caching.
func NewUserRepository(next repository.UserRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func versionKey(username string) string { return versionPrefix + username }

func entryKey(username string, version int64) string {
	return keyPrefix + username + ":" + strconv.FormatInt(version, 10)
}

func (r *UserRepository) version(ctx context.Context, username string) (int64, error) {
	v, err := r.rdb.Get(ctx, versionKey(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get serves username from redis, loading it from the wrapped repository on a
// miss. Concurrent misses for the same version share one load, which runs
// detached from the caller's cancellation.
func (r *UserRepository) Get(ctx context.Context, username string) (*entity.User, error) {
	if r.rdb == nil {
		return r.next.Get(ctx, username)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
	defer cancel()

	ver, err := r.version(ctx, username)
	if err != nil {
		r.warn(err, username, "cache version read failed")
		return r.next.Get(ctx, username)
	}

	k := entryKey(username, ver)
	v, err, _ := r.sf.Do(k, func() (interface{}, error) {
		var cu cachedUser
		hit, err := helpers.RedisGetJSON(ctx, r.rdb, k, &cu)
		if err != nil {
			r.warn(err, username, "cache read failed")
		}
		if hit {
			if u, ok := cu.toEntity(); ok {
				return u, nil
			}
		}

		u, err := r.next.Get(ctx, username)
		if err != nil {
			return nil, err
		}
		if err := helpers.RedisSetJSON(ctx, r.rdb, k, fromEntity(u), r.ttl); err != nil {
			r.warn(err, username, "cache write failed")
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	u := *v.(*entity.User)
	return &u, nil
}

// Upsert writes through to the wrapped repository, then moves username to a
// new cache version and drops the previous entry.
func (r *UserRepository) Upsert(ctx context.Context, username string, dateOfBirth time.Time) (bool, error) {
	created, err := r.next.Upsert(ctx, username, dateOfBirth)
	if err != nil {
		return false, err
	}
	if r.rdb != nil {
		// the record is already written; invalidate even if the caller has gone
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		ver, err := r.rdb.Incr(ctx, versionKey(username)).Result()
		if err != nil {
			r.warn(err, username, "cache invalidation failed")
			return created, nil
		}
		if err := helpers.RedisDel(ctx, r.rdb, entryKey(username, ver-1)); err != nil {
			r.warn(err, username, "cache cleanup failed")
		}
	}
	return created, nil
}

func (r *UserRepository) warn(err error, username, msg string) {
	if r.logger != nil {
		r.logger.WithError(err).WithField("username", username).Warn(msg)
	}
}

func fromEntity(u *entity.User) cachedUser {
	return cachedUser{
		Username:    u.Username,
		DateOfBirth: u.DateOfBirth.Format(time.DateOnly),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c cachedUser) toEntity() (*entity.User, bool) {
	d, err := time.Parse(time.DateOnly, c.DateOfBirth)
	if err != nil || c.Username == "" {
		return nil, false
	}
	return &entity.User{Username: c.Username, DateOfBirth: d, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}, true
}

var _ repository.UserRepository = (*UserRepository)(nil)
