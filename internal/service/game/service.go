// Package game implements the movie-pick flows: the filtered multi-card
// game deck and the single random pick with sentiment commentary.
package game

import (
	"context"

	"github.com/emreb/cinematch/internal/app"
	"github.com/emreb/cinematch/internal/catalog"
	"github.com/emreb/cinematch/internal/classifier"
	"github.com/emreb/cinematch/internal/db"
	svcErr "github.com/emreb/cinematch/internal/errors"
	"github.com/emreb/cinematch/internal/repository"
)

// SentimentAnalyzer is the external classifier capability: text in,
// binary label out.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// Service contains the game business logic on top of the repository and
// cache layers.
type Service struct {
	appCtx        *app.AppContext
	movieRepo     *repository.MovieRepository
	sentimentRepo *repository.SentimentRepository
	analyzer      SentimentAnalyzer
}

// NewService creates a game service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, analyzer SentimentAnalyzer) *Service {
	return &Service{
		appCtx:        appCtx,
		movieRepo:     repository.NewMovieRepository(appCtx.DB),
		sentimentRepo: repository.NewSentimentRepository(appCtx.DB),
		analyzer:      analyzer,
	}
}

// Movies runs the full selection pipeline: compiled filter → random pool
// → independent reshuffle → pageSize prefix → normalization.
//
// Too-strict filters yield an empty slice, not an error; the handler
// serializes it as []. A pool smaller than pageSize degrades to fewer
// results.
func (s *Service) Movies(ctx context.Context, f catalog.Filter, pageSize int) ([]catalog.Movie, error) {
	s.appCtx.Logger.Debug("Movies called",
		"genres", f.Genres, "platforms", f.Platforms, "page_size", pageSize)

	pool, err := s.movieRepo.Pool(ctx, f)
	if err != nil {
		s.appCtx.Logger.Error("candidate pool query failed", "err", err)
		return nil, err
	}

	picked := catalog.Pick(pool, pageSize)
	return s.normalize(ctx, picked)
}

// Pick is a single movie pick plus the classifier's verdict on its
// overview. An empty catalog is a real not-found, unlike an empty
// filtered list.
type Pick struct {
	Movie      catalog.Movie `json:"movie"`
	Sentiment  string        `json:"sentiment"`
	Commentary string        `json:"commentary"`
}

// PickMovie draws one random movie from the whole catalog.
func (s *Service) PickMovie(ctx context.Context) (Pick, error) {
	s.appCtx.Logger.Debug("PickMovie called")

	pool, err := s.movieRepo.Pool(ctx, catalog.Filter{})
	if err != nil {
		s.appCtx.Logger.Error("candidate pool query failed", "err", err)
		return Pick{}, err
	}
	picked := catalog.Pick(pool, catalog.SinglePick)
	if len(picked) == 0 {
		return Pick{}, svcErr.NotFound("no movies in catalog")
	}

	movies, err := s.normalize(ctx, picked)
	if err != nil {
		return Pick{}, err
	}

	label, err := s.labelFor(ctx, picked[0].ID, picked[0].Overview)
	if err != nil {
		s.appCtx.Logger.Error("sentiment lookup failed", "movie_id", picked[0].ID, "err", err)
		return Pick{}, err
	}

	return Pick{
		Movie:      movies[0],
		Sentiment:  label,
		Commentary: classifier.Commentary(label),
	}, nil
}

// labelFor memoises the classifier: redis first, then the sentiment
// table, then one live call whose result is persisted to both. Cache
// errors only degrade to the next tier; classifier errors surface.
func (s *Service) labelFor(ctx context.Context, movieID uint64, overview string) (string, error) {
	if label, ok, err := s.appCtx.RedisCache.GetSentiment(ctx, movieID); err != nil {
		s.appCtx.Logger.Warn("sentiment cache read failed", "movie_id", movieID, "err", err)
	} else if ok {
		return label, nil
	}

	if label, ok, err := s.sentimentRepo.Get(ctx, movieID); err != nil {
		return "", err
	} else if ok {
		_ = s.appCtx.RedisCache.SetSentiment(ctx, movieID, label)
		return label, nil
	}

	label, err := s.analyzer.Analyze(ctx, overview)
	if err != nil {
		return "", err
	}
	if err := s.sentimentRepo.Save(ctx, movieID, label); err != nil {
		return "", err
	}
	_ = s.appCtx.RedisCache.SetSentiment(ctx, movieID, label)
	return label, nil
}

func (s *Service) normalize(ctx context.Context, picked []db.Movie) ([]catalog.Movie, error) {
	ids := make([]uint64, len(picked))
	for i, m := range picked {
		ids[i] = m.ID
	}
	genreNames, err := s.movieRepo.GenreNames(ctx, ids)
	if err != nil {
		s.appCtx.Logger.Error("genre lookup failed", "err", err)
		return nil, err
	}

	out := make([]catalog.Movie, 0, len(picked))
	for _, m := range picked {
		out = append(out, catalog.Normalize(m, genreNames[m.ID]))
	}
	return out, nil
}
