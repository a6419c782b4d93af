package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/hello-birthday/internal/domain/entity"
	"github.com/oksasatya/hello-birthday/internal/domain/repository"
)

// UserRepository stores users in process memory for tests or lightweight usage.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
	now   func() time.Time
}

// NewUserRepository returns an initialized in-memory repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]entity.User), now: time.Now}
}

func (r *UserRepository) Get(ctx context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) Upsert(ctx context.Context, username string, dateOfBirth time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	u, exists := r.users[username]
	if !exists {
		u = entity.User{Username: username, CreatedAt: now}
	}
	u.DateOfBirth = dateOfBirth
	u.UpdatedAt = now
	r.users[username] = u
	return !exists, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// List returns a copy of every user ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.Lister         = (*UserRepository)(nil)
)
