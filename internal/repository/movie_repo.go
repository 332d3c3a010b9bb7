package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/emreb/cinematch/internal/catalog"
	"github.com/emreb/cinematch/internal/db"
)

// MovieRepository provides read access to the movie catalog. The catalog
// is written only by the offline ingestion jobs; the request path never
// mutates it.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new repository bound to the given DB connection.
func NewMovieRepository(database *gorm.DB) *MovieRepository {
	return &MovieRepository{db: database}
}

// Pool draws an unordered random candidate pool matching the filter,
// capped at catalog.PoolSize rows. Callers reshuffle and truncate the
// pool themselves; see catalog.Pick.
func (r *MovieRepository) Pool(ctx context.Context, f catalog.Filter) ([]db.Movie, error) {
	var movies []db.Movie
	err := r.db.WithContext(ctx).
		Scopes(f.Scope()).
		Order(r.randomFn()).
		Limit(catalog.PoolSize).
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// GenreNames returns the comma-space joined genre string per movie ID.
// Movies without genre rows are simply absent from the map; the
// normalizer turns that into an empty string, never an error.
//
// The join string is assembled here rather than with GROUP_CONCAT so the
// separator does not depend on the store dialect.
func (r *MovieRepository) GenreNames(ctx context.Context, movieIDs []uint64) (map[uint64]string, error) {
	if len(movieIDs) == 0 {
		return map[uint64]string{}, nil
	}

	var rows []struct {
		MovieID uint64
		Name    string
	}
	err := r.db.WithContext(ctx).
		Table("movie_genres mg").
		Select("mg.movie_id, g.name").
		Joins("JOIN genres g ON g.id = mg.genre_id").
		Where("mg.movie_id IN ?", movieIDs).
		Order("mg.movie_id, g.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	parts := make(map[uint64][]string, len(rows))
	for _, row := range rows {
		parts[row.MovieID] = append(parts[row.MovieID], row.Name)
	}
	out := make(map[uint64]string, len(parts))
	for id, names := range parts {
		out[id] = strings.Join(names, ", ")
	}
	return out, nil
}

// randomFn is the dialect's random ordering function.
func (r *MovieRepository) randomFn() string {
	if r.db.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}
