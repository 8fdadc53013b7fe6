package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/caseforge/storefront/services/common/errors"
	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/repository"
	"go.uber.org/zap"
)

const checkoutProductName = "Custom iPhone Case"

type CheckoutConfig struct {
	FrontendURL      string
	Currency         string
	AllowedCountries []string
}

type CheckoutUser struct {
	ID    string
	Email string
}

type CheckoutResponse struct {
	URL     string `json:"url"`
	OrderID string `json:"order_id"`
}

type CheckoutMetrics interface {
	RecordCheckout(status string)
}

type CheckoutService interface {
	CreateCheckout(ctx context.Context, user CheckoutUser, configurationID string) (*CheckoutResponse, error)
}

type checkoutService struct {
	cfg            CheckoutConfig
	configurations repository.ConfigurationRepository
	orders         repository.OrderRepository
	users          repository.UserRepository
	gateway        PaymentGateway
	metrics        CheckoutMetrics
	logger         *zap.Logger
}

func NewCheckoutService(
	cfg CheckoutConfig,
	configurations repository.ConfigurationRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	gateway PaymentGateway,
	metrics CheckoutMetrics,
	logger *zap.Logger,
) CheckoutService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &checkoutService{
		cfg:            cfg,
		configurations: configurations,
		orders:         orders,
		users:          users,
		gateway:        gateway,
		metrics:        metrics,
		logger:         logger,
	}
}

func (s *checkoutService) CreateCheckout(ctx context.Context, user CheckoutUser, configurationID string) (*CheckoutResponse, error) {
	if configurationID == "" {
		return nil, apperrors.BadRequest("configuration_id is required")
	}

	configuration, err := s.configurations.FindByID(ctx, configurationID)
	if err != nil {
		if errors.Is(err, repository.ErrConfigurationNotFound) {
			return nil, apperrors.NotFound("configuration not found")
		}
		return nil, apperrors.Internal("failed to load configuration", err)
	}

	price, err := CasePrice(configuration)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	if err := s.users.Ensure(ctx, user.ID, user.Email); err != nil {
		return nil, apperrors.Internal("failed to save user", err)
	}

	order, err := s.orders.FindByUserAndConfiguration(ctx, user.ID, configuration.ID)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		order = &models.Order{
			UserID:          user.ID,
			ConfigurationID: configuration.ID,
			Amount:          price,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return nil, apperrors.Internal("failed to create order", err)
		}
	case err != nil:
		return nil, apperrors.Internal("failed to load order", err)
	case order.IsPaid:
		return nil, apperrors.New(http.StatusConflict, "order already paid", nil)
	case order.Amount != price:
		// Options may have changed since the order was first created.
		if err := s.orders.UpdateAmount(ctx, order.ID, price); err != nil {
			return nil, apperrors.Internal("failed to update order amount", err)
		}
		order.Amount = price
	}

	imageURL := configuration.ImageURL
	if configuration.CroppedImageURL != nil {
		imageURL = *configuration.CroppedImageURL
	}

	result, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionInput{
		OrderID:          order.ID,
		UserID:           user.ID,
		CustomerEmail:    user.Email,
		ProductName:      checkoutProductName,
		ImageURL:         imageURL,
		Amount:           price,
		Currency:         s.cfg.Currency,
		SuccessURL:       fmt.Sprintf("%s/thank-you?orderId=%s", s.cfg.FrontendURL, url.QueryEscape(order.ID)),
		CancelURL:        fmt.Sprintf("%s/configure/preview?id=%s", s.cfg.FrontendURL, url.QueryEscape(configuration.ID)),
		AllowedCountries: s.cfg.AllowedCountries,
	})
	if err != nil {
		s.metrics.RecordCheckout("failed")
		return nil, apperrors.BadGateway("failed to create checkout session", err)
	}
	s.metrics.RecordCheckout("created")

	s.logger.Info("Checkout session created",
		zap.String("order_id", order.ID),
		zap.String("user_id", user.ID),
		zap.String("session_id", result.ID),
		zap.Int64("amount", order.Amount),
	)

	return &CheckoutResponse{URL: result.URL, OrderID: order.ID}, nil
}
