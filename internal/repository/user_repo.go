package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emreb/cinematch/internal/db"
)

// UserRepository provides data access methods for users. There is no
// credential handling anywhere: identity is the client-supplied username.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetOrCreate implements login: an unknown username creates a user, a
// known one returns the existing row. Logging in twice with the same
// name must yield the same ID.
func (r *UserRepository) GetOrCreate(ctx context.Context, username string) (db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Where(db.User{Username: username}).
		FirstOrCreate(&user).Error
	return user, err
}

// FindByID returns the user or gorm.ErrRecordNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, err
}
