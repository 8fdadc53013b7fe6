package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	awspkg "github.com/caseforge/storefront/pkg/aws"
	apperrors "github.com/caseforge/storefront/services/common/errors"
	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	uploadKeyPrefix       = "configurations/"
	DefaultPresignExpires = 15 * time.Minute
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

type CreateConfigurationInput struct {
	ImageURL string `json:"image_url" binding:"required"`
	Width    int    `json:"width" binding:"required,gt=0"`
	Height   int    `json:"height" binding:"required,gt=0"`
}

// UpdateConfigurationInput carries the options chosen in the designer. Nil
// fields are left untouched.
type UpdateConfigurationInput struct {
	Color           *string `json:"color"`
	Model           *string `json:"model"`
	Material        *string `json:"material"`
	Finish          *string `json:"finish"`
	CroppedImageURL *string `json:"cropped_image_url"`
}

type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	Method    string `json:"method"`
	Key       string `json:"key"`
	PublicURL string `json:"public_url"`
	ExpiresIn int    `json:"expires_in"`
}

type ConfigurationService interface {
	Create(ctx context.Context, in CreateConfigurationInput) (*models.Configuration, error)
	Get(ctx context.Context, id string) (*models.Configuration, error)
	Update(ctx context.Context, id string, in UpdateConfigurationInput) (*models.Configuration, error)
	PresignUpload(ctx context.Context, filename, contentType string) (*PresignedUpload, error)
}

type configurationService struct {
	repo          repository.ConfigurationRepository
	cache         ConfigurationCache
	presigner     awspkg.Presigner
	publicBaseURL string
	logger        *zap.Logger
}

// NewConfigurationService wires the configuration store. cache and presigner
// may be nil; without a presigner uploads are unavailable.
func NewConfigurationService(
	repo repository.ConfigurationRepository,
	cache ConfigurationCache,
	presigner awspkg.Presigner,
	publicBaseURL string,
	logger *zap.Logger,
) ConfigurationService {
	return &configurationService{
		repo:          repo,
		cache:         cache,
		presigner:     presigner,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

func (s *configurationService) Create(ctx context.Context, in CreateConfigurationInput) (*models.Configuration, error) {
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, apperrors.BadRequest("image_url is required")
	}
	if in.Width <= 0 || in.Height <= 0 {
		return nil, apperrors.BadRequest("width and height must be positive")
	}

	cfg := &models.Configuration{
		ImageURL: in.ImageURL,
		Width:    in.Width,
		Height:   in.Height,
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, apperrors.Internal("failed to create configuration", err)
	}
	return cfg, nil
}

func (s *configurationService) Get(ctx context.Context, id string) (*models.Configuration, error) {
	if s.cache != nil {
		if cfg, ok := s.cache.Get(ctx, id); ok {
			return cfg, nil
		}
	}

	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrConfigurationNotFound) {
			return nil, apperrors.NotFound("configuration not found")
		}
		return nil, apperrors.Internal("failed to load configuration", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, cfg)
	}
	return cfg, nil
}

func (s *configurationService) Update(ctx context.Context, id string, in UpdateConfigurationInput) (*models.Configuration, error) {
	if err := validateOptions(in); err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrConfigurationNotFound) {
			return nil, apperrors.NotFound("configuration not found")
		}
		return nil, apperrors.Internal("failed to load configuration", err)
	}

	if in.Color != nil {
		cfg.Color = in.Color
	}
	if in.Model != nil {
		cfg.Model = in.Model
	}
	if in.Material != nil {
		cfg.Material = in.Material
	}
	if in.Finish != nil {
		cfg.Finish = in.Finish
	}
	if in.CroppedImageURL != nil {
		cfg.CroppedImageURL = in.CroppedImageURL
	}

	if err := s.repo.Update(ctx, cfg); err != nil {
		if errors.Is(err, repository.ErrConfigurationNotFound) {
			return nil, apperrors.NotFound("configuration not found")
		}
		return nil, apperrors.Internal("failed to update configuration", err)
	}
	if s.cache != nil {
		s.cache.Delete(ctx, id)
	}
	return cfg, nil
}

func validateOptions(in UpdateConfigurationInput) error {
	checks := []struct {
		name    string
		value   *string
		options []models.Option
	}{
		{"color", in.Color, models.Colors},
		{"model", in.Model, models.PhoneModels},
		{"material", in.Material, models.Materials},
		{"finish", in.Finish, models.Finishes},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if _, ok := models.FindOption(c.options, *c.value); !ok {
			return fmt.Errorf("unknown %s %q", c.name, *c.value)
		}
	}
	return nil
}

func (s *configurationService) PresignUpload(ctx context.Context, filename, contentType string) (*PresignedUpload, error) {
	if s.presigner == nil {
		return nil, apperrors.New(http.StatusServiceUnavailable, "uploads are not configured", nil)
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, apperrors.BadRequest("invalid content type, allowed: image/png, image/jpeg, image/jpg")
	}
	if fileExt := strings.ToLower(path.Ext(filename)); fileExt == ".png" || fileExt == ".jpeg" || fileExt == ".jpg" {
		ext = fileExt
	}

	key := uploadKeyPrefix + uuid.NewString() + ext
	uploadURL, err := s.presigner.PresignPut(ctx, key, contentType, DefaultPresignExpires)
	if err != nil {
		return nil, apperrors.BadGateway("failed to generate presigned upload", err)
	}

	return &PresignedUpload{
		UploadURL: uploadURL,
		Method:    http.MethodPut,
		Key:       key,
		PublicURL: s.publicBaseURL + "/" + key,
		ExpiresIn: int(DefaultPresignExpires.Seconds()),
	}, nil
}
