package ingest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emreb/cinematch/internal/catalog"
	"github.com/emreb/cinematch/internal/db"
)

// apiPause keeps the backfill loops polite to the provider.
const apiPause = 200 * time.Millisecond

// Jobs runs the catalog backfill tasks. Each job commits row by row so a
// crash mid-run loses at most one movie's worth of progress.
type Jobs struct {
	db     *gorm.DB
	client *TMDBClient
	log    *slog.Logger
}

func NewJobs(database *gorm.DB, client *TMDBClient, log *slog.Logger) *Jobs {
	return &Jobs{db: database, client: client, log: log}
}

// Genres upserts the provider's genre table.
func (j *Jobs) Genres(ctx context.Context) error {
	genres, err := j.client.GenreList(ctx)
	if err != nil {
		return err
	}
	for _, g := range genres {
		row := db.Genre{ID: g.ID, Name: g.Name}
		if err := j.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&row).Error; err != nil {
			return err
		}
	}
	j.log.Info("genres synced", "count", len(genres))
	return nil
}

// Discover pulls pages of popular released movies into the catalog.
// Movies with an overview too short for the classifier are skipped, and
// existing rows (by TMDB id) are left untouched.
func (j *Jobs) Discover(ctx context.Context, pages int) error {
	added := 0
	for page := 1; page <= pages; page++ {
		entries, err := j.client.Discover(ctx, page)
		if err != nil {
			j.log.Error("discover page failed", "page", page, "err", err)
			continue
		}
		for _, e := range entries {
			if len(e.Overview) < 10 {
				continue
			}
			movie := movieFromEntry(e)
			res := j.db.WithContext(ctx).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "tmdb_id"}},
					DoNothing: true,
				}).
				Create(&movie)
			if res.Error != nil {
				j.log.Error("movie insert failed", "title", e.Title, "err", res.Error)
				continue
			}
			if res.RowsAffected > 0 {
				added++
				j.linkGenres(ctx, movie.ID, e.GenreIDs)
			}
		}
		j.log.Info("discover page done", "page", page)
		time.Sleep(apiPause)
	}
	j.log.Info("discover finished", "added", added)
	return nil
}

// Platforms fills the platform column for unclassified movies from the
// region's flatrate providers. No provider means theatrical.
func (j *Jobs) Platforms(ctx context.Context) error {
	movies, err := j.moviesWhere(ctx, "platform IS NULL AND tmdb_id IS NOT NULL")
	if err != nil {
		return err
	}
	j.log.Info("backfilling platforms", "count", len(movies))

	for _, m := range movies {
		providers, err := j.client.WatchProviders(ctx, *m.TmdbID)
		if err != nil {
			j.log.Error("provider lookup failed", "title", m.Title, "err", err)
			continue
		}
		platform := catalog.TheatricalPlatform
		if len(providers) > 0 {
			platform = providers[0].ProviderName
		}
		if err := j.db.WithContext(ctx).Model(&db.Movie{}).
			Where("id = ?", m.ID).
			Update("platform", platform).Error; err != nil {
			return err
		}
		j.log.Info("platform set", "title", m.Title, "platform", platform)
		time.Sleep(apiPause)
	}
	return nil
}

// Ratings fills missing or zero vote averages from the movie details.
func (j *Jobs) Ratings(ctx context.Context) error {
	movies, err := j.moviesWhere(ctx, "(vote_average IS NULL OR vote_average = 0) AND tmdb_id IS NOT NULL")
	if err != nil {
		return err
	}
	j.log.Info("backfilling ratings", "count", len(movies))

	for _, m := range movies {
		details, err := j.client.Details(ctx, *m.TmdbID)
		if err != nil {
			j.log.Error("details lookup failed", "title", m.Title, "err", err)
			continue
		}
		if details.VoteAverage == 0 {
			j.log.Warn("no rating available", "title", m.Title)
			continue
		}
		if err := j.db.WithContext(ctx).Model(&db.Movie{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"vote_average": details.VoteAverage,
				"vote_count":   details.VoteCount,
			}).Error; err != nil {
			return err
		}
		time.Sleep(apiPause)
	}
	return nil
}

// Dates fills missing release dates via the title search fallback chain.
func (j *Jobs) Dates(ctx context.Context) error {
	movies, err := j.moviesWhere(ctx, "release_date IS NULL")
	if err != nil {
		return err
	}
	j.log.Info("backfilling release dates", "count", len(movies))

	for _, m := range movies {
		match, ok := j.searchByTitle(ctx, m.Title)
		if !ok || match.ReleaseDate == "" {
			j.log.Warn("no release date found", "title", m.Title)
			continue
		}
		date, err := time.Parse("2006-01-02", match.ReleaseDate)
		if err != nil {
			continue
		}
		if err := j.db.WithContext(ctx).Model(&db.Movie{}).
			Where("id = ?", m.ID).
			Update("release_date", date).Error; err != nil {
			return err
		}
		j.log.Info("release date set", "title", m.Title, "date", match.ReleaseDate)
		time.Sleep(apiPause)
	}
	return nil
}

// GenreRepair relinks movies that have no genre rows, again via the
// title fallback chain.
func (j *Jobs) GenreRepair(ctx context.Context) error {
	movies, err := j.moviesWhere(ctx,
		"NOT EXISTS (SELECT 1 FROM movie_genres mg WHERE mg.movie_id = movies.id)")
	if err != nil {
		return err
	}
	j.log.Info("repairing genres", "count", len(movies))

	for _, m := range movies {
		match, ok := j.searchByTitle(ctx, m.Title)
		if !ok || len(match.GenreIDs) == 0 {
			j.log.Warn("no genres found", "title", m.Title)
			continue
		}
		j.linkGenres(ctx, m.ID, match.GenreIDs)
		j.log.Info("genres repaired", "title", m.Title, "genres", len(match.GenreIDs))
		time.Sleep(apiPause)
	}
	return nil
}

// searchByTitle resolves a catalog title against the provider with a
// widening fallback chain: exact title match, then original-title match,
// then a retry with the title truncated before ":" or "-", then simply
// the first result of whichever search returned anything.
func (j *Jobs) searchByTitle(ctx context.Context, title string) (searchResult, bool) {
	results, err := j.client.Search(ctx, title)
	if err != nil {
		j.log.Error("title search failed", "title", title, "err", err)
		return searchResult{}, false
	}

	for _, r := range results {
		if strings.EqualFold(r.Title, title) {
			return r, true
		}
	}
	for _, r := range results {
		if strings.EqualFold(r.OriginalTitle, title) {
			return r, true
		}
	}

	if short := truncateTitle(title); short != title {
		shortResults, err := j.client.Search(ctx, short)
		if err == nil && len(shortResults) > 0 {
			return shortResults[0], true
		}
	}

	if len(results) > 0 {
		return results[0], true
	}
	return searchResult{}, false
}

// truncateTitle cuts a subtitle off at the first ":" or "-".
func truncateTitle(title string) string {
	for _, sep := range []string{":", "-"} {
		if i := strings.Index(title, sep); i > 0 {
			return strings.TrimSpace(title[:i])
		}
	}
	return title
}

func (j *Jobs) moviesWhere(ctx context.Context, cond string) ([]db.Movie, error) {
	var movies []db.Movie
	err := j.db.WithContext(ctx).Where(cond).Find(&movies).Error
	return movies, err
}

func (j *Jobs) linkGenres(ctx context.Context, movieID uint64, genreIDs []uint64) {
	for _, gid := range genreIDs {
		link := db.MovieGenre{MovieID: movieID, GenreID: gid}
		if err := j.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&link).Error; err != nil {
			j.log.Error("genre link failed", "movie_id", movieID, "genre_id", gid, "err", err)
		}
	}
}

func movieFromEntry(e MovieEntry) db.Movie {
	tmdbID := e.ID
	movie := db.Movie{
		TmdbID:    &tmdbID,
		Title:     e.Title,
		Overview:  e.Overview,
		VoteCount: e.VoteCount,
	}
	if e.PosterPath != "" {
		poster := e.PosterPath
		movie.PosterURL = &poster
	}
	if e.VoteAverage > 0 {
		avg := e.VoteAverage
		movie.VoteAverage = &avg
	}
	if e.ReleaseDate != "" {
		if date, err := time.Parse("2006-01-02", e.ReleaseDate); err == nil {
			movie.ReleaseDate = &date
		}
	}
	return movie
}
