package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/hello-birthday/internal/domain/entity"
	"github.com/oksasatya/hello-birthday/internal/domain/repository"
)

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(ctx context.Context, username string) (*entity.User, error) {
	u := &entity.User{}

	row := r.db.QueryRow(ctx, `
		SELECT username, date_of_birth, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username)

	if err := row.Scan(&u.Username, &u.DateOfBirth, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	return u, nil
}

// Upsert runs as one statement; the row lock taken by ON CONFLICT serialises
// writers of the same username. xmax is zero only for a freshly inserted row.
func (r *UserRepository) Upsert(ctx context.Context, username string, dateOfBirth time.Time) (bool, error) {
	var created bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, date_of_birth)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE
		SET date_of_birth = EXCLUDED.date_of_birth, updated_at = now()
		RETURNING (xmax = 0) AS created
	`, username, dateOfBirth).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT username, date_of_birth, created_at, updated_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.Username, &u.DateOfBirth, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Ping reports whether the database answers.
func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.Lister         = (*UserRepository)(nil)
)
