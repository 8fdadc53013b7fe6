package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/caseforge/storefront/services/common/errors"
	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/repository"
	"go.uber.org/zap"
)

type Revenue struct {
	LastWeek  int64 `json:"last_week"`  // in cents
	LastMonth int64 `json:"last_month"` // in cents
}

type DashboardService interface {
	ListPaidOrders(ctx context.Context) ([]models.Order, error)
	Revenue(ctx context.Context) (*Revenue, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error
}

type dashboardService struct {
	orders repository.OrderRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewDashboardService(orders repository.OrderRepository, logger *zap.Logger) DashboardService {
	return &dashboardService{orders: orders, now: time.Now, logger: logger}
}

func (s *dashboardService) ListPaidOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListPaid(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *dashboardService) Revenue(ctx context.Context) (*Revenue, error) {
	now := s.now()

	week, err := s.orders.SumPaidSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.Internal("failed to sum revenue", err)
	}
	month, err := s.orders.SumPaidSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.Internal("failed to sum revenue", err)
	}
	return &Revenue{LastWeek: week, LastMonth: month}, nil
}

func (s *dashboardService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if !status.Valid() {
		return apperrors.BadRequest("unknown order status")
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return apperrors.NotFound("order not found")
		}
		return apperrors.Internal("failed to update order status", err)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)
	return nil
}
