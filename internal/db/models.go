package db

import (
	"time"

	"gorm.io/gorm"
)

// Movie is a catalog row. Rows are written by the offline ingestion jobs
// and are read-only at request time.
//
// Nullable columns are pointers on purpose: a missing poster, rating,
// release date or platform all have distinct fallback behavior in the
// presentation layer, so "zero value" and "absent" must stay separable.
type Movie struct {
	ID          uint64   `gorm:"primaryKey;autoIncrement"`
	TmdbID      *uint64  `gorm:"uniqueIndex"`
	Title       string   `gorm:"size:255;not null;index"`
	Overview    string   `gorm:"type:text"`
	PosterURL   *string  `gorm:"size:512"`
	VoteAverage *float64 // 0.0 to 10.0
	VoteCount   int      `gorm:"default:0"`
	ReleaseDate *time.Time
	Platform    *string   `gorm:"size:64"` // NULL/empty means theatrical ("Sinema")
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Genre display names come from TMDB and keep TMDB's genre IDs.
type Genre struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"size:64;not null"`
}

// MovieGenre is the movie/genre join relation.
type MovieGenre struct {
	MovieID uint64 `gorm:"primaryKey"`
	GenreID uint64 `gorm:"primaryKey"`
}

// User has no credentials: login is get-or-create by username.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Partner is a named shared-viewing profile owned by a user. Deleting a
// partner cascades to its collection entries via the FK below; the
// application never walks the cascade itself.
type Partner struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Name      string    `gorm:"size:64;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// CollectionEntry records that a user liked a movie, optionally in the
// context of a partner.
//
// PartnerKey backs the uniqueness guarantee: NULLs are distinct in both
// MySQL and SQLite unique indexes, so a nullable partner_id alone cannot
// dedupe solo likes. PartnerKey collapses "solo" to 0 so that
// (user_id, movie_id, partner_key) is a real unique constraint and a
// duplicate like resolves as a conflict no-op in a single statement.
type CollectionEntry struct {
	ID         uint64   `gorm:"primaryKey;autoIncrement"`
	UserID     uint64   `gorm:"not null;uniqueIndex:idx_user_movie_partner,priority:1"`
	User       User     `gorm:"constraint:OnDelete:CASCADE"`
	MovieID    uint64   `gorm:"not null;uniqueIndex:idx_user_movie_partner,priority:2"`
	Movie      Movie    `gorm:"constraint:OnDelete:CASCADE"`
	PartnerID  *uint64  `gorm:"index"`
	Partner    *Partner `gorm:"constraint:OnDelete:CASCADE"`
	PartnerKey uint64   `gorm:"not null;default:0;uniqueIndex:idx_user_movie_partner,priority:3"`
	SavedAt    time.Time
}

func (CollectionEntry) TableName() string { return "collections" }

func (e *CollectionEntry) BeforeCreate(tx *gorm.DB) error {
	if e.PartnerID != nil {
		e.PartnerKey = *e.PartnerID
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = tx.NowFunc()
	}
	return nil
}

// MovieSentiment memoises the classifier verdict so the external service
// runs at most once per movie.
type MovieSentiment struct {
	MovieID   uint64    `gorm:"primaryKey"`
	Label     string    `gorm:"size:16;not null"` // "Positive" or "Negative"
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
