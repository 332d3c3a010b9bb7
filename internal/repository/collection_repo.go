package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emreb/cinematch/internal/db"
)

// Scope restricts a library read. It is a tagged variant rather than a
// nullable partner ID so the solo/partnered distinction is checked by
// the compiler instead of by null checks at every call site.
type Scope struct {
	kind      scopeKind
	partnerID uint64
}

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopeSolo
	scopePartner
)

// ScopeAll applies no partner restriction.
func ScopeAll() Scope { return Scope{kind: scopeAll} }

// ScopeSolo restricts to entries saved without a partner.
func ScopeSolo() Scope { return Scope{kind: scopeSolo} }

// ScopePartner restricts to entries saved with the given partner.
func ScopePartner(id uint64) Scope { return Scope{kind: scopePartner, partnerID: id} }

// CollectionRepository provides data access methods for collection
// entries (likes).
type CollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new repository bound to the given DB connection.
func NewCollectionRepository(database *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: database}
}

// RecordLike inserts a like for (user, movie, partner-or-nil).
//
// Idempotency lives in the store: the unique index over
// (user_id, movie_id, partner_key) plus ON CONFLICT DO NOTHING makes a
// duplicate call a single-statement no-op, with no check-then-insert
// window. Solo and partnered likes for the same movie coexist because
// they land on different partner keys.
//
// Returns whether a new row was created; duplicates are success either way.
func (r *CollectionRepository) RecordLike(ctx context.Context, userID, movieID uint64, partnerID *uint64) (bool, error) {
	entry := db.CollectionEntry{
		UserID:    userID,
		MovieID:   movieID,
		PartnerID: partnerID,
	}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}, {Name: "partner_key"}},
			DoNothing: true,
		}).
		Create(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListLibrary returns the user's collection entries within scope, movie
// rows preloaded, most recently saved first.
//
// The solo restriction is an explicit IS NULL predicate: equality
// against NULL never matches, so "partner_id = NULL" would silently
// return nothing.
func (r *CollectionRepository) ListLibrary(ctx context.Context, userID uint64, scope Scope) ([]db.CollectionEntry, error) {
	query := r.db.WithContext(ctx).
		Preload("Movie").
		Where("user_id = ?", userID)

	switch scope.kind {
	case scopeSolo:
		query = query.Where("partner_id IS NULL")
	case scopePartner:
		query = query.Where("partner_id = ?", scope.partnerID)
	}

	var entries []db.CollectionEntry
	err := query.Order("saved_at DESC, id DESC").Find(&entries).Error
	return entries, err
}

// CountByUser returns the user's total number of likes across all
// partner contexts. Backs the cached profile counter.
func (r *CollectionRepository) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.CollectionEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
