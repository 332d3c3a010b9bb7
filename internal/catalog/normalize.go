package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/emreb/cinematch/internal/db"
)

const (
	posterBaseURL     = "https://image.tmdb.org/t/p/w500"
	posterPlaceholder = "https://via.placeholder.com/500x750?text=No+Poster"
	overviewFallback  = "No summary available."
)

// Movie is the client-facing movie shape. Ratings travel as strings and
// missing fields are already resolved to their fallbacks; the mobile
// client renders these verbatim.
type Movie struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Overview  string `json:"overview"`
	PosterURL string `json:"poster_url"`
	Platform  string `json:"platform"`
	Rating    string `json:"imdb_rating"`
	Genre     string `json:"genre"`
	Year      string `json:"year"`
}

// LibraryItem is a library row: a normalized movie plus when it was saved.
type LibraryItem struct {
	Movie
	SavedAt time.Time `json:"saved_at"`
}

// Normalize maps a raw catalog row into the client shape. genreNames is
// the pre-aggregated, comma-space joined genre string for the movie
// (empty when the movie has no genre rows). Pure, no store access.
func Normalize(m db.Movie, genreNames string) Movie {
	return Movie{
		ID:        m.ID,
		Title:     m.Title,
		Overview:  normalizeOverview(m.Overview),
		PosterURL: NormalizePosterURL(m.PosterURL),
		Platform:  normalizePlatform(m.Platform),
		Rating:    normalizeRating(m.VoteAverage),
		Genre:     genreNames,
		Year:      normalizeYear(m.ReleaseDate),
	}
}

// NormalizePosterURL completes a stored poster reference into a fetchable
// URL. Absolute URLs pass through untouched; bare paths get a leading
// slash and the image CDN prefix; missing posters get the placeholder.
func NormalizePosterURL(raw *string) string {
	if raw == nil || *raw == "" {
		return posterPlaceholder
	}
	p := *raw
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return posterBaseURL + p
}

func normalizePlatform(p *string) string {
	if p == nil || *p == "" {
		return TheatricalPlatform
	}
	return *p
}

func normalizeRating(v *float64) string {
	if v == nil {
		return "0.0"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func normalizeYear(d *time.Time) string {
	if d == nil {
		return ""
	}
	return strconv.Itoa(d.Year())
}

func normalizeOverview(s string) string {
	if s == "" {
		return overviewFallback
	}
	return s
}
