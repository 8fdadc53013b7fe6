package services

import (
	"context"
	"errors"

	apperrors "github.com/caseforge/storefront/services/common/errors"
	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/repository"
)

// PaymentStatus is polled by the thank-you page until the webhook has run.
type PaymentStatus struct {
	IsPaid bool          `json:"is_paid"`
	Order  *models.Order `json:"order,omitempty"`
}

type OrderService interface {
	GetPaymentStatus(ctx context.Context, userID, orderID string) (*PaymentStatus, error)
}

type orderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) GetPaymentStatus(ctx context.Context, userID, orderID string) (*PaymentStatus, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to load order", err)
	}
	// Other users' orders are reported as missing.
	if order.UserID != userID {
		return nil, apperrors.NotFound("order not found")
	}

	if !order.IsPaid {
		return &PaymentStatus{IsPaid: false}, nil
	}
	return &PaymentStatus{IsPaid: true, Order: order}, nil
}
