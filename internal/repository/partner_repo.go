package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emreb/cinematch/internal/db"
)

// PartnerRepository provides data access methods for partner profiles.
type PartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new repository bound to the given DB connection.
func NewPartnerRepository(database *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: database}
}

func (r *PartnerRepository) Add(ctx context.Context, userID uint64, name string) (db.Partner, error) {
	partner := db.Partner{UserID: userID, Name: name}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&partner).Error
	return partner, err
}

// ListByUser returns the user's partners, oldest first.
func (r *PartnerRepository) ListByUser(ctx context.Context, userID uint64) ([]db.Partner, error) {
	var partners []db.Partner
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&partners).Error
	return partners, err
}

// Delete removes a partner. The store's ON DELETE CASCADE takes the
// partner's collection entries with it. Deleting an unknown partner is a
// no-op, not an error.
func (r *PartnerRepository) Delete(ctx context.Context, partnerID uint64) error {
	return r.db.WithContext(ctx).Delete(&db.Partner{}, partnerID).Error
}

// MostRecentName returns the name of the most recently added partner,
// or "" when the user has none.
func (r *PartnerRepository) MostRecentName(ctx context.Context, userID uint64) (string, error) {
	var partner db.Partner
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return partner.Name, nil
}
