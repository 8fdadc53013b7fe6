package repository

import (
	"context"

	"github.com/caseforge/storefront/services/storefront-service/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	// Ensure inserts the user or refreshes its email when it already exists.
	Ensure(ctx context.Context, id, email string) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Ensure(ctx context.Context, id, email string) error {
	user := models.User{ID: id, Email: email}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "updated_at"}),
		}).
		Create(&user).Error
}
