package repository

import (
	"context"
	"testing"

	"github.com/devlingo/devlingo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	u := testutil.NewTestUser("Ana", testutil.WithEmail("ana@example.com"))
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)
	assert.Equal(t, "ana@example.com", byID.Email)
	assert.Equal(t, u.PasswordHash, byID.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(byID.CreatedAt))

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("Ana", testutil.WithEmail("dup@example.com"))))
	err := repo.Create(ctx, testutil.NewTestUser("Other", testutil.WithEmail("dup@example.com")))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepo_NotFound(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.IncrementTotalXP(ctx, "missing", 10), ErrNotFound)
}

func TestUserRepo_IncrementTotalXP(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	u := testutil.NewTestUser("Ana", testutil.WithTotalXP(5))
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.IncrementTotalXP(ctx, u.ID, 10))
	require.NoError(t, repo.IncrementTotalXP(ctx, u.ID, 10))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.TotalXP)
}
