package repository

import (
	"context"
	"errors"

	"github.com/caseforge/storefront/services/storefront-service/models"
	"gorm.io/gorm"
)

var ErrConfigurationNotFound = errors.New("configuration not found")

type ConfigurationRepository interface {
	Create(ctx context.Context, cfg *models.Configuration) error
	FindByID(ctx context.Context, id string) (*models.Configuration, error)
	Update(ctx context.Context, cfg *models.Configuration) error
}

type GormConfigurationRepository struct {
	db *gorm.DB
}

func NewGormConfigurationRepository(db *gorm.DB) ConfigurationRepository {
	return &GormConfigurationRepository{db: db}
}

func (r *GormConfigurationRepository) Create(ctx context.Context, cfg *models.Configuration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *GormConfigurationRepository) FindByID(ctx context.Context, id string) (*models.Configuration, error) {
	var c models.Configuration
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigurationNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update writes the option columns and the cropped image of cfg.
func (r *GormConfigurationRepository) Update(ctx context.Context, cfg *models.Configuration) error {
	res := r.db.WithContext(ctx).
		Model(&models.Configuration{}).
		Where("id = ?", cfg.ID).
		Updates(map[string]interface{}{
			"color":             cfg.Color,
			"model":             cfg.Model,
			"material":          cfg.Material,
			"finish":            cfg.Finish,
			"cropped_image_url": cfg.CroppedImageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConfigurationNotFound
	}
	return nil
}
