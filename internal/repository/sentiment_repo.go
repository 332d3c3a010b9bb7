package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emreb/cinematch/internal/db"
)

// SentimentRepository persists classifier verdicts so each movie is
// classified at most once.
type SentimentRepository struct {
	db *gorm.DB
}

// NewSentimentRepository creates a new repository bound to the given DB connection.
func NewSentimentRepository(database *gorm.DB) *SentimentRepository {
	return &SentimentRepository{db: database}
}

// Get returns (label, found). A missing row is not an error.
func (r *SentimentRepository) Get(ctx context.Context, movieID uint64) (string, bool, error) {
	var row db.MovieSentiment
	err := r.db.WithContext(ctx).First(&row, "movie_id = ?", movieID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Label, true, nil
}

// Save stores the verdict. Concurrent classifications of the same movie
// are harmless; the first writer wins.
func (r *SentimentRepository) Save(ctx context.Context, movieID uint64, label string) error {
	row := db.MovieSentiment{MovieID: movieID, Label: label}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}
