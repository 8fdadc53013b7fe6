package controllers

import (
	"net/http"

	"github.com/caseforge/storefront/services/storefront-service/middleware"
	"github.com/caseforge/storefront/services/storefront-service/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	orders services.OrderService
	logger *zap.Logger
}

func NewOrderController(orders services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

// PaymentStatus handles GET /api/orders/:id/payment-status
func (oc *OrderController) PaymentStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := oc.orders.GetPaymentStatus(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		writeError(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
