package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emreb/cinematch/internal/catalog"
	"github.com/emreb/cinematch/internal/db"
	"github.com/emreb/cinematch/internal/repository"
)

// setupTestDB opens an isolated in-memory SQLite DB with the schema and
// the deterministic five-movie fixture.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=1"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	require.NoError(t, db.SeedMinimalTestData(database))
	return database
}

func poolIDs(t *testing.T, repo *repository.MovieRepository, f catalog.Filter) map[uint64]bool {
	t.Helper()
	pool, err := repo.Pool(context.Background(), f)
	require.NoError(t, err)
	ids := make(map[uint64]bool, len(pool))
	for _, m := range pool {
		ids[m.ID] = true
	}
	return ids
}

// An empty filter is a pure wildcard: every catalog row qualifies,
// including the movie with no genre rows at all.
func TestPoolWildcardMatchesEverything(t *testing.T) {
	repo := repository.NewMovieRepository(setupTestDB(t))

	ids := poolIDs(t, repo, catalog.Filter{})
	assert.Len(t, ids, 5)
	assert.True(t, ids[3], "genre-less movie must qualify without a genre filter")
}

func TestPoolYearFilter(t *testing.T) {
	repo := repository.NewMovieRepository(setupTestDB(t))

	lo, hi := 2000, 2021
	ids := poolIDs(t, repo, catalog.Filter{MinYear: &lo, MaxYear: &hi})

	assert.True(t, ids[1]) // 2019
	assert.True(t, ids[2]) // 2005
	assert.True(t, ids[3]) // 2021, bounds are inclusive
	assert.False(t, ids[4], "movie without a release date never matches a year filter")
	assert.False(t, ids[5]) // 1998
}

func TestPoolGenreFilter(t *testing.T) {
	repo := repository.NewMovieRepository(setupTestDB(t))

	ids := poolIDs(t, repo, catalog.Filter{Genres: []string{"Dram"}})
	assert.True(t, ids[1])
	assert.True(t, ids[2])
	assert.False(t, ids[3])
	assert.False(t, ids[4])

	// multi-genre movies match on any of their genres, once
	pool, err := repo.Pool(context.Background(), catalog.Filter{Genres: []string{"Dram", "Aksiyon"}})
	require.NoError(t, err)
	assert.Len(t, pool, 3) // movies 1, 2, 4; movie 1 not duplicated
}

func TestPoolPlatformSubstring(t *testing.T) {
	repo := repository.NewMovieRepository(setupTestDB(t))

	// substring, not exact: "Prime" matches "Amazon Prime Video"
	ids := poolIDs(t, repo, catalog.Filter{Platforms: []string{"Prime"}})
	assert.Len(t, ids, 1)
	assert.True(t, ids[2])

	// the match is case-sensitive: "netflix" is not "Netflix"
	ids = poolIDs(t, repo, catalog.Filter{Platforms: []string{"netflix"}})
	assert.Len(t, ids, 0)
}

// The theatrical token matches NULL platforms, empty platforms and
// labels containing it, so unclassified movies show up in a "Sinema"
// game even though their row says nothing.
func TestPoolTheatricalFallback(t *testing.T) {
	repo := repository.NewMovieRepository(setupTestDB(t))

	ids := poolIDs(t, repo, catalog.Filter{Platforms: []string{"Sinema"}})
	assert.True(t, ids[3], "NULL platform")
	assert.True(t, ids[4], "explicit Sinema label")
	assert.True(t, ids[5], "empty string platform")
	assert.False(t, ids[1])
	assert.False(t, ids[2])
}

func TestPoolCombinedDimensionsAreANDed(t *testing.T) {
	repo := repository.NewMovieRepository(setupTestDB(t))

	lo, hi := 2010, 2025
	ids := poolIDs(t, repo, catalog.Filter{
		MinYear:   &lo,
		MaxYear:   &hi,
		Genres:    []string{"Aksiyon", "Dram"},
		Platforms: []string{"Netflix", "Sinema"},
	})
	// only movie 1 is 2010+, Aksiyon/Dram and on Netflix
	assert.Len(t, ids, 1)
	assert.True(t, ids[1])
}

func TestGenreNames(t *testing.T) {
	repo := repository.NewMovieRepository(setupTestDB(t))

	names, err := repo.GenreNames(context.Background(), []uint64{1, 3, 5})
	require.NoError(t, err)

	assert.Equal(t, "Aksiyon, Dram", names[1])
	assert.Equal(t, "Komedi", names[5])
	_, ok := names[3]
	assert.False(t, ok, "genre-less movie is absent from the map")
}
