package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/hello-birthday/internal/domain/repository"
)

func TestUpsertCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	first := time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)
	second := time.Date(1991, time.May, 10, 0, 0, 0, 0, time.UTC)

	created, err := repo.Upsert(ctx, "john", first)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(ctx, "john", second)
	require.NoError(t, err)
	assert.False(t, created)

	u, err := repo.Get(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, second, u.DateOfBirth)
	assert.False(t, u.CreatedAt.After(u.UpdatedAt))
}

func TestGetIsExactAndCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	_, err := repo.Upsert(ctx, "john", time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	for _, name := range []string{"John", "jo", "johnny"} {
		_, err := repo.Get(ctx, name)
		assert.ErrorIs(t, err, repository.ErrNotFound, name)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	dob := time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)
	_, err := repo.Upsert(ctx, "john", dob)
	require.NoError(t, err)

	u, err := repo.Get(ctx, "john")
	require.NoError(t, err)
	u.DateOfBirth = time.Time{}

	again, err := repo.Get(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, dob, again.DateOfBirth)
}

func TestConcurrentUpsertCreatesOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	dob := time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		creates int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := repo.Upsert(ctx, "john", dob)
			assert.NoError(t, err)
			if created {
				mu.Lock()
				creates++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, creates)
}

func TestCountAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	for i, name := range []string{"carol", "alice", "bob"} {
		_, err := repo.Upsert(ctx, name, time.Date(1990+i, time.May, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, u := range list {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
}
