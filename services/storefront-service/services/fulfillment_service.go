package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	awspkg "github.com/caseforge/storefront/pkg/aws"
	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/repository"
	"github.com/caseforge/storefront/services/storefront-service/sender"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

// orderDateLayout renders dates the way en-US toLocaleDateString does.
const orderDateLayout = "1/2/2006"

type FulfillmentConfig struct {
	SigningSecret string
	// Tolerance bounds the age of a signed event. Zero uses the Stripe default.
	Tolerance time.Duration
	// EmailAttempts is the number of confirmation send attempts. Zero means one,
	// and a retry may reach the customer twice when the provider timed out
	// after accepting the message.
	EmailAttempts   int
	EmailRetryDelay time.Duration
	// OrderPaidTopicArn is the SNS topic for order.paid events; empty disables publishing.
	OrderPaidTopicArn string
}

// FulfillmentMetrics receives webhook outcome measurements.
type FulfillmentMetrics interface {
	RecordWebhook(eventType, status string, d time.Duration)
	RecordWebhookError(kind string)
	RecordEmail(status string)
}

// FulfillmentService turns a signed checkout.session.completed delivery into
// a paid order and a confirmation email.
type FulfillmentService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*stripe.Event, error)
}

type fulfillmentService struct {
	cfg       FulfillmentConfig
	orders    repository.OrderRepository
	emails    sender.EmailSender
	publisher awspkg.SNSPublisher
	metrics   FulfillmentMetrics
	logger    *zap.Logger
}

type FulfillmentOption func(*fulfillmentService)

func WithOrderPaidPublisher(p awspkg.SNSPublisher) FulfillmentOption {
	return func(s *fulfillmentService) { s.publisher = p }
}

func WithFulfillmentMetrics(m FulfillmentMetrics) FulfillmentOption {
	return func(s *fulfillmentService) { s.metrics = m }
}

func NewFulfillmentService(
	cfg FulfillmentConfig,
	orders repository.OrderRepository,
	emails sender.EmailSender,
	logger *zap.Logger,
	opts ...FulfillmentOption,
) FulfillmentService {
	if cfg.Tolerance == 0 {
		cfg.Tolerance = webhook.DefaultTolerance
	}
	if cfg.EmailAttempts < 1 {
		cfg.EmailAttempts = 1
	}
	s := &fulfillmentService{
		cfg:     cfg,
		orders:  orders,
		emails:  emails,
		metrics: noopMetrics{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *fulfillmentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*stripe.Event, error) {
	start := time.Now()
	event, err := s.handle(ctx, payload, signature)

	eventType := ""
	if event != nil {
		eventType = string(event.Type)
	}
	status := "success"
	if err != nil {
		status = "error"
		s.metrics.RecordWebhookError(KindOf(err).String())
	}
	s.metrics.RecordWebhook(eventType, status, time.Since(start))

	return event, err
}

func (s *fulfillmentService) handle(ctx context.Context, payload []byte, signature string) (*stripe.Event, error) {
	if signature == "" {
		return nil, newFulfillmentError(KindAuthentication, "", ErrMissingSignature)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.SigningSecret, webhook.ConstructEventOptions{
		Tolerance:                s.cfg.Tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, newFulfillmentError(KindAuthentication, "signature verification failed", err)
	}

	log := s.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
	)

	if string(event.Type) != EventCheckoutSessionCompleted {
		log.Info("Ignoring unsupported webhook event")
		return &event, newFulfillmentError(KindUnsupportedEvent, string(event.Type), ErrUnsupportedEvent)
	}

	if event.Data == nil {
		return &event, newFulfillmentError(KindValidation, "", ErrMalformedPayload)
	}
	checkout, err := parseCheckoutSession(event.Data.Raw)
	if err != nil {
		return &event, newFulfillmentError(KindValidation, "invalid checkout session", err)
	}
	log = log.With(zap.String("order_id", checkout.OrderID), zap.String("user_id", checkout.UserID))

	shipping := &models.ShippingAddress{Address: checkout.Shipping}
	billing := &models.BillingAddress{Address: checkout.Billing}
	order, err := s.orders.MarkPaid(ctx, checkout.OrderID, shipping, billing)
	if err != nil {
		msg := "failed to mark order paid"
		if errors.Is(err, repository.ErrOrderNotFound) {
			msg = "order does not exist"
		}
		return &event, newFulfillmentError(KindPersistence, msg, err)
	}
	log.Info("Order marked paid",
		zap.String("shipping_address_id", shipping.ID),
		zap.String("billing_address_id", billing.ID),
	)

	s.publishOrderPaid(ctx, log, event.ID, checkout, order)

	if err := s.sendConfirmation(ctx, checkout, order); err != nil {
		s.metrics.RecordEmail("failed")
		return &event, newFulfillmentError(KindNotification, "failed to send confirmation email", err)
	}
	s.metrics.RecordEmail("sent")

	return &event, nil
}

func (s *fulfillmentService) sendConfirmation(ctx context.Context, checkout *paidCheckout, order *models.Order) error {
	state := ""
	if checkout.Shipping.State != nil {
		state = *checkout.Shipping.State
	}

	email, err := sender.NewOrderConfirmationEmail(
		sender.Recipient{Email: checkout.Email, Name: checkout.Shipping.Name},
		sender.OrderConfirmation{
			OrderID:            order.ID,
			OrderDate:          order.CreatedAt.Format(orderDateLayout),
			ShippingName:       checkout.Shipping.Name,
			ShippingStreet:     checkout.Shipping.Street,
			ShippingCity:       checkout.Shipping.City,
			ShippingState:      state,
			ShippingPostalCode: checkout.Shipping.PostalCode,
		},
	)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < s.cfg.EmailAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.cfg.EmailRetryDelay):
			}
		}

		var result sender.SendResult
		result, lastErr = s.emails.SendEmail(ctx, email)
		if lastErr == nil {
			s.logger.Info("Order confirmation sent",
				zap.String("order_id", order.ID),
				zap.String("message_id", result.MessageID),
			)
			return nil
		}

		s.logger.Warn("Confirmation send attempt failed",
			zap.String("order_id", order.ID),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}
	return lastErr
}

// publishOrderPaid is best-effort; failures are logged only.
func (s *fulfillmentService) publishOrderPaid(ctx context.Context, log *zap.Logger, eventID string, checkout *paidCheckout, order *models.Order) {
	if s.publisher == nil || s.cfg.OrderPaidTopicArn == "" {
		return
	}

	msg, err := json.Marshal(models.OrderPaidEvent{
		Type:      models.EventTypeOrderPaid,
		OrderID:   order.ID,
		UserID:    checkout.UserID,
		Email:     checkout.Email,
		Amount:    order.Amount,
		EventID:   eventID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Error("Failed to encode order paid event", zap.Error(err))
		return
	}

	if err := s.publisher.Publish(ctx, s.cfg.OrderPaidTopicArn, msg); err != nil {
		log.Warn("Failed to publish order paid event", zap.Error(err))
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordWebhook(string, string, time.Duration) {}
func (noopMetrics) RecordWebhookError(string)                   {}
func (noopMetrics) RecordEmail(string)                          {}
