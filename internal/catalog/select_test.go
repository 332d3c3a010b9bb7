package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emreb/cinematch/internal/db"
)

func poolOf(n int) []db.Movie {
	pool := make([]db.Movie, n)
	for i := range pool {
		pool[i] = db.Movie{ID: uint64(i + 1)}
	}
	return pool
}

func TestPickNeverExceedsPageSize(t *testing.T) {
	pool := poolOf(PoolSize)
	for _, n := range []int{SinglePick, GamePageSize, BrowsePageSize} {
		assert.Len(t, Pick(pool, n), n)
	}
}

func TestPickShortPoolDegradesGracefully(t *testing.T) {
	// pool of 2 with page size 5 returns exactly those 2 rows
	picked := Pick(poolOf(2), GamePageSize)
	require.Len(t, picked, 2)

	ids := map[uint64]bool{picked[0].ID: true, picked[1].ID: true}
	assert.True(t, ids[1])
	assert.True(t, ids[2])
}

func TestPickEmptyPool(t *testing.T) {
	picked := Pick(nil, GamePageSize)
	require.NotNil(t, picked)
	assert.Len(t, picked, 0)
}

func TestPickReturnsSubsetOfPool(t *testing.T) {
	pool := poolOf(20)
	picked := Pick(pool, GamePageSize)
	require.Len(t, picked, GamePageSize)

	seen := map[uint64]int{}
	for _, m := range picked {
		seen[m.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "movie %d picked more than once", id)
		assert.LessOrEqual(t, id, uint64(20))
	}
}

func TestPickDoesNotMutatePool(t *testing.T) {
	pool := poolOf(10)
	Pick(pool, GamePageSize)
	for i, m := range pool {
		assert.Equal(t, uint64(i+1), m.ID)
	}
}
