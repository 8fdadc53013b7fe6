package controllers

import (
	"io"
	"net/http"

	"github.com/caseforge/storefront/services/common/logger"
	"github.com/caseforge/storefront/services/storefront-service/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBodyBytes = 1 << 20

// WebhookController receives Stripe webhook deliveries.
type WebhookController struct {
	fulfillment services.FulfillmentService
	logger      *zap.Logger
}

func NewWebhookController(fulfillment services.FulfillmentService, logger *zap.Logger) *WebhookController {
	return &WebhookController{fulfillment: fulfillment, logger: logger}
}

// StripeWebhook handles POST /api/webhooks/stripe. The body is read raw since
// the signature covers the exact bytes.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	log := logger.FromContext(c, wc.logger)

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		log.Error("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong", "success": false})
		return
	}

	event, err := wc.fulfillment.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		kind := services.KindOf(err)
		fields := []zap.Field{zap.String("kind", kind.String()), zap.Error(err)}
		if event != nil {
			fields = append(fields, zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))
		}

		switch kind {
		case services.KindAuthentication:
			// A present but unverifiable signature also lands here as 400
			// rather than the generic 500 body; Stripe retries on both.
			log.Warn("Stripe webhook signature verification failed", fields...)
			c.String(http.StatusBadRequest, "Invalid signature")
		case services.KindUnsupportedEvent:
			log.Info("Stripe webhook event type rejected", fields...)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Event type is wrong", "ok": false})
		default:
			log.Error("Stripe webhook processing failed", fields...)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong", "success": false})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": event, "success": true})
}
