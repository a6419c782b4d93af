package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/hello-birthday/internal/domain/entity"
)

// ErrNotFound is returned by Get when no record exists for the username.
var ErrNotFound = errors.New("user not found")

// UserRepository defines the persistence operations the birthday service needs.
type UserRepository interface {
	// Get looks a user up by exact username.
	Get(ctx context.Context, username string) (*entity.User, error)
	// Upsert creates the user or overwrites its date of birth. It reports
	// whether the record was created. Concurrent calls for one username
	// are serialised by the implementation.
	Upsert(ctx context.Context, username string, dateOfBirth time.Time) (bool, error)
}

// Lister is implemented by stores that can enumerate their records.
type Lister interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]entity.User, error)
}
