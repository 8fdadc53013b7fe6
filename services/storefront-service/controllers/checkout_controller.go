package controllers

import (
	"net/http"

	"github.com/caseforge/storefront/services/storefront-service/middleware"
	"github.com/caseforge/storefront/services/storefront-service/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutController struct {
	checkout services.CheckoutService
	logger   *zap.Logger
}

func NewCheckoutController(checkout services.CheckoutService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{checkout: checkout, logger: logger}
}

type checkoutRequest struct {
	ConfigurationID string `json:"configuration_id" binding:"required"`
}

// CreateCheckout handles POST /api/checkout
func (cc *CheckoutController) CreateCheckout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, err := cc.checkout.CreateCheckout(c.Request.Context(), services.CheckoutUser{ID: user.ID, Email: user.Email}, req.ConfigurationID)
	if err != nil {
		writeError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
