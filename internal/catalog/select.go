package catalog

import (
	"math/rand"

	"github.com/emreb/cinematch/internal/db"
)

// PoolSize caps how many candidate rows the store returns per draw.
// The store's own random ordering correlates rows when asked for a small
// LIMIT directly, so we over-fetch a pool and reshuffle it client-side.
const PoolSize = 50

// Page sizes for the different pick flows.
const (
	GamePageSize   = 5
	SinglePick     = 1
	BrowsePageSize = 10
)

// Pick performs an independent random permutation of the pool and
// returns a prefix of at most n rows.
//
// A pool smaller than n is not an error: the caller gets everything
// available. An empty pool yields an empty (non-nil) slice so callers
// can serialize it as [] and distinguish "filters too strict" from a
// store failure.
func Pick(pool []db.Movie, n int) []db.Movie {
	out := make([]db.Movie, len(pool))
	copy(out, pool)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
