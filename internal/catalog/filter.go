// Package catalog holds the decision logic of the movie game: compiling
// client filters into store predicates, sampling candidate pools, and
// normalizing raw rows into the client-facing movie shape.
package catalog

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TheatricalPlatform is the fallback label for movies with no known
// streaming platform. As a filter value it also matches rows whose
// platform column is NULL or empty, since the catalog uses all three
// spellings of "not on a streaming service".
const TheatricalPlatform = "Sinema"

// Filter is a compiled client filter request. Dimensions are AND-ed
// together; values within a dimension are OR-ed. An empty dimension is a
// wildcard, never an empty result.
type Filter struct {
	// MinYear/MaxYear are honored only as a pair; a lone bound is ignored.
	MinYear *int
	MaxYear *int

	// Genres matches movies having at least one of these genre names.
	Genres []string

	// Platforms matches by case-sensitive substring against the platform
	// label, with the theatrical special case described above.
	Platforms []string
}

// ParseFilter builds a Filter from the raw query parameters of
// /get-game-movies. Unparseable year bounds are dropped, matching the
// lone-bound rule: a half-usable year filter imposes no constraint.
func ParseFilter(minYear, maxYear, genres, platforms string) Filter {
	f := Filter{
		Genres:    splitList(genres),
		Platforms: splitList(platforms),
	}
	lo, errLo := strconv.Atoi(strings.TrimSpace(minYear))
	hi, errHi := strconv.Atoi(strings.TrimSpace(maxYear))
	if errLo == nil && errHi == nil {
		f.MinYear, f.MaxYear = &lo, &hi
	}
	return f
}

// Scope compiles the filter into a gorm scope over the movies table.
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if f.MinYear != nil && f.MaxYear != nil {
			// NULL release dates fail both comparisons, so undated
			// movies never match a year filter.
			from := time.Date(*f.MinYear, time.January, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(*f.MaxYear, time.December, 31, 23, 59, 59, 0, time.UTC)
			tx = tx.Where("movies.release_date >= ? AND movies.release_date <= ?", from, to)
		}

		if len(f.Genres) > 0 {
			// EXISTS, not a join: a movie can carry several genres and
			// must not be duplicated or required to match all of them.
			tx = tx.Where(`EXISTS (
				SELECT 1 FROM movie_genres mg
				JOIN genres g ON g.id = mg.genre_id
				WHERE mg.movie_id = movies.id AND g.name IN ?
			)`, f.Genres)
		}

		if len(f.Platforms) > 0 {
			contains := platformContainsExpr(tx.Dialector.Name())
			var conds []string
			var args []interface{}
			for _, p := range f.Platforms {
				if p == TheatricalPlatform {
					conds = append(conds,
						"(movies.platform IS NULL OR movies.platform = '' OR "+contains+")")
					args = append(args, TheatricalPlatform)
					continue
				}
				conds = append(conds, contains)
				args = append(args, p)
			}
			tx = tx.Where(strings.Join(conds, " OR "), args...)
		}

		return tx
	}
}

// platformContainsExpr is the case-sensitive substring predicate for the
// platform column. SQLite's INSTR compares bytes already; MySQL's follows
// the column's utf8mb4 collation, which is case-insensitive, so there the
// column is forced to the binary collation first.
func platformContainsExpr(dialect string) string {
	if dialect == "mysql" {
		return "INSTR(movies.platform COLLATE utf8mb4_bin, ?) > 0"
	}
	return "INSTR(movies.platform, ?) > 0"
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
