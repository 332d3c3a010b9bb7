package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emreb/cinematch/internal/repository"
)

func u64Ptr(u uint64) *uint64 { return &u }

// Recording the same solo like twice leaves exactly one row; the
// uniqueness constraint absorbs the duplicate without an error. A
// partnered like for the same movie is a distinct grouping and coexists.
func TestRecordLikeIdempotent(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewCollectionRepository(database)

	created, err := repo.RecordLike(ctx, 1, 3, nil)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.RecordLike(ctx, 1, 3, nil)
	require.NoError(t, err)
	assert.False(t, created, "duplicate solo like must be a no-op")

	created, err = repo.RecordLike(ctx, 1, 3, u64Ptr(1))
	require.NoError(t, err)
	assert.True(t, created, "partnered like is a separate context")

	count, err := repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRecordLikeDuplicatePartnered(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCollectionRepository(setupTestDB(t))

	created, err := repo.RecordLike(ctx, 1, 2, u64Ptr(1))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.RecordLike(ctx, 1, 2, u64Ptr(1))
	require.NoError(t, err)
	assert.False(t, created)
}

func TestListLibraryScopes(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewCollectionRepository(database)

	_, err := repo.RecordLike(ctx, 1, 1, nil)
	require.NoError(t, err)
	_, err = repo.RecordLike(ctx, 1, 2, u64Ptr(1))
	require.NoError(t, err)
	_, err = repo.RecordLike(ctx, 1, 4, u64Ptr(1))
	require.NoError(t, err)
	_, err = repo.RecordLike(ctx, 2, 5, nil) // another user
	require.NoError(t, err)

	all, err := repo.ListLibrary(ctx, 1, repository.ScopeAll())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	solo, err := repo.ListLibrary(ctx, 1, repository.ScopeSolo())
	require.NoError(t, err)
	require.Len(t, solo, 1)
	assert.Nil(t, solo[0].PartnerID)
	assert.Equal(t, uint64(1), solo[0].MovieID)

	partnered, err := repo.ListLibrary(ctx, 1, repository.ScopePartner(1))
	require.NoError(t, err)
	assert.Len(t, partnered, 2)
	for _, e := range partnered {
		require.NotNil(t, e.PartnerID)
		assert.Equal(t, uint64(1), *e.PartnerID)
	}
}

func TestListLibraryPreloadsMovies(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCollectionRepository(setupTestDB(t))

	_, err := repo.RecordLike(ctx, 1, 1, nil)
	require.NoError(t, err)

	entries, err := repo.ListLibrary(ctx, 1, repository.ScopeAll())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Gece Yolcusu", entries[0].Movie.Title)
	assert.False(t, entries[0].SavedAt.IsZero())
}

func TestCountByUserEmpty(t *testing.T) {
	repo := repository.NewCollectionRepository(setupTestDB(t))

	count, err := repo.CountByUser(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
