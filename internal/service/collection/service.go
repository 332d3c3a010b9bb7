// Package collection implements users, partners, like recording and the
// library/profile reads.
package collection

import (
	"context"
	"strings"

	"github.com/emreb/cinematch/internal/app"
	"github.com/emreb/cinematch/internal/catalog"
	svcErr "github.com/emreb/cinematch/internal/errors"
	"github.com/emreb/cinematch/internal/repository"
)

// Service contains the collection business logic on top of the
// repository and cache layers.
type Service struct {
	appCtx         *app.AppContext
	userRepo       *repository.UserRepository
	partnerRepo    *repository.PartnerRepository
	collectionRepo *repository.CollectionRepository
	movieRepo      *repository.MovieRepository
}

// NewService creates a collection service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:         appCtx,
		userRepo:       repository.NewUserRepository(appCtx.DB),
		partnerRepo:    repository.NewPartnerRepository(appCtx.DB),
		collectionRepo: repository.NewCollectionRepository(appCtx.DB),
		movieRepo:      repository.NewMovieRepository(appCtx.DB),
	}
}

// UserRecord is the login response shape.
type UserRecord struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Login is get-or-create, not authentication: the username is the whole
// identity and logging in twice returns the same record.
func (s *Service) Login(ctx context.Context, username string) (UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return UserRecord{}, svcErr.InvalidArgument("username is required")
	}

	s.appCtx.Logger.Debug("Login called", "username", username)

	user, err := s.userRepo.GetOrCreate(ctx, username)
	if err != nil {
		s.appCtx.Logger.Error("login failed", "username", username, "err", err)
		return UserRecord{}, err
	}
	return UserRecord{ID: user.ID, Username: user.Username}, nil
}

// PartnerRecord is the partner list/add response shape.
type PartnerRecord struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func (s *Service) AddPartner(ctx context.Context, userID uint64, name string) (PartnerRecord, error) {
	name = strings.TrimSpace(name)
	if userID == 0 || name == "" {
		return PartnerRecord{}, svcErr.InvalidArgument("user_id and name are required")
	}

	s.appCtx.Logger.Debug("AddPartner called", "user_id", userID, "name", name)

	partner, err := s.partnerRepo.Add(ctx, userID, name)
	if err != nil {
		s.appCtx.Logger.Error("add partner failed", "user_id", userID, "err", err)
		return PartnerRecord{}, err
	}
	return PartnerRecord{ID: partner.ID, Name: partner.Name}, nil
}

func (s *Service) Partners(ctx context.Context, userID uint64) ([]PartnerRecord, error) {
	if userID == 0 {
		return nil, svcErr.InvalidArgument("user_id is required")
	}

	partners, err := s.partnerRepo.ListByUser(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("list partners failed", "user_id", userID, "err", err)
		return nil, err
	}

	out := make([]PartnerRecord, 0, len(partners))
	for _, p := range partners {
		out = append(out, PartnerRecord{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

// DeletePartner removes the partner; its collection entries go with it
// via the store's cascade.
func (s *Service) DeletePartner(ctx context.Context, partnerID uint64) error {
	if partnerID == 0 {
		return svcErr.InvalidArgument("partner_id is required")
	}

	s.appCtx.Logger.Debug("DeletePartner called", "partner_id", partnerID)

	if err := s.partnerRepo.Delete(ctx, partnerID); err != nil {
		s.appCtx.Logger.Error("delete partner failed", "partner_id", partnerID, "err", err)
		return err
	}
	return nil
}

// SaveMatch records a like for (user, movie, optional partner).
// Duplicate saves are success: the store-level constraint absorbs them.
func (s *Service) SaveMatch(ctx context.Context, userID, movieID uint64, partnerID *uint64) error {
	if userID == 0 || movieID == 0 {
		return svcErr.InvalidArgument("user_id and movie_id are required")
	}

	s.appCtx.Logger.Debug("SaveMatch called",
		"user_id", userID, "movie_id", movieID, "partner_id", partnerID)

	created, err := s.collectionRepo.RecordLike(ctx, userID, movieID, partnerID)
	if err != nil {
		s.appCtx.Logger.Error("record like failed", "user_id", userID, "movie_id", movieID, "err", err)
		return err
	}
	if created {
		// drop the cached profile counter so the next read recounts
		if err := s.appCtx.RedisCache.InvalidateLikeCount(ctx, userID); err != nil {
			s.appCtx.Logger.Warn("like count invalidation failed", "user_id", userID, "err", err)
		}
	}
	return nil
}

// Library returns the user's saved movies within scope, newest first,
// normalized for the client.
func (s *Service) Library(ctx context.Context, userID uint64, scope repository.Scope) ([]catalog.LibraryItem, error) {
	if userID == 0 {
		return nil, svcErr.InvalidArgument("user_id is required")
	}

	entries, err := s.collectionRepo.ListLibrary(ctx, userID, scope)
	if err != nil {
		s.appCtx.Logger.Error("library query failed", "user_id", userID, "err", err)
		return nil, err
	}

	ids := make([]uint64, len(entries))
	for i, e := range entries {
		ids[i] = e.MovieID
	}
	genreNames, err := s.movieRepo.GenreNames(ctx, ids)
	if err != nil {
		s.appCtx.Logger.Error("genre lookup failed", "err", err)
		return nil, err
	}

	out := make([]catalog.LibraryItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, catalog.LibraryItem{
			Movie:   catalog.Normalize(e.Movie, genreNames[e.MovieID]),
			SavedAt: e.SavedAt,
		})
	}
	return out, nil
}

// Profile is the get-profile response shape.
type Profile struct {
	Username    string `json:"username"`
	PartnerName string `json:"partner_name"`
	TotalLikes  int64  `json:"total_likes"`
}

// GetProfile aggregates the profile view. The like total is cache-first
// with the DB as fallback; a fresh count refreshes the cache with a TTL.
func (s *Service) GetProfile(ctx context.Context, userID uint64) (Profile, error) {
	if userID == 0 {
		return Profile{}, svcErr.InvalidArgument("user_id is required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("profile user lookup failed", "user_id", userID, "err", err)
		return Profile{}, err
	}

	partnerName, err := s.partnerRepo.MostRecentName(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("profile partner lookup failed", "user_id", userID, "err", err)
		return Profile{}, err
	}

	total, cached, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Warn("like count cache read failed", "user_id", userID, "err", err)
	}
	if !cached {
		total, err = s.collectionRepo.CountByUser(ctx, userID)
		if err != nil {
			s.appCtx.Logger.Error("like count query failed", "user_id", userID, "err", err)
			return Profile{}, err
		}
		if err := s.appCtx.RedisCache.SetLikeCount(ctx, userID, total); err != nil {
			s.appCtx.Logger.Warn("like count cache write failed", "user_id", userID, "err", err)
		}
	}

	return Profile{
		Username:    user.Username,
		PartnerName: partnerName,
		TotalLikes:  total,
	}, nil
}
