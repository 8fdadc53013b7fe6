package routes

import (
	"github.com/caseforge/storefront/services/common/auth"
	commonmw "github.com/caseforge/storefront/services/common/middleware"
	"github.com/caseforge/storefront/services/storefront-service/controllers"
	"github.com/caseforge/storefront/services/storefront-service/middleware"
	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Webhook       *controllers.WebhookController
	Checkout      *controllers.CheckoutController
	Configuration *controllers.ConfigurationController
	Order         *controllers.OrderController
	Admin         *controllers.AdminController
}

type Options struct {
	TokenParser *auth.TokenParser
	AdminEmails []string
	// Requests per minute allowed per client on checkout and upload routes.
	RateLimitPerMinute int
	RateLimitBurst     int
}

// RegisterRoutes sets up all storefront routes under /api.
func RegisterRoutes(r *gin.Engine, c Controllers, opts Options) {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 20
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 5
	}

	api := r.Group("/api")

	// Public: Stripe authenticates itself through the signature header.
	api.POST("/webhooks/stripe", c.Webhook.StripeWebhook)

	api.GET("/options", c.Configuration.Options)
	api.POST("/configurations", c.Configuration.Create)
	api.GET("/configurations/:id", c.Configuration.Get)
	api.PATCH("/configurations/:id", c.Configuration.Update)

	limited := commonmw.RateLimitMiddleware(opts.RateLimitPerMinute, opts.RateLimitBurst)
	api.POST("/uploads/presign", limited, c.Configuration.PresignUpload)

	authed := api.Group("", middleware.JWTMiddleware(opts.TokenParser))
	authed.POST("/checkout", limited, c.Checkout.CreateCheckout)
	authed.GET("/orders/:id/payment-status", c.Order.PaymentStatus)

	admin := authed.Group("/admin", middleware.RequireAdmin(opts.AdminEmails))
	admin.GET("/orders", c.Admin.ListOrders)
	admin.GET("/revenue", c.Admin.Revenue)
	admin.PATCH("/orders/:id/status", c.Admin.UpdateStatus)
}
