package controllers

import (
	"net/http"

	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController serves the dashboard data. Routes are mounted behind
// middleware.RequireAdmin.
type AdminController struct {
	dashboard services.DashboardService
	logger    *zap.Logger
}

func NewAdminController(dashboard services.DashboardService, logger *zap.Logger) *AdminController {
	return &AdminController{dashboard: dashboard, logger: logger}
}

// ListOrders handles GET /api/admin/orders
func (ac *AdminController) ListOrders(c *gin.Context) {
	orders, err := ac.dashboard.ListPaidOrders(c.Request.Context())
	if err != nil {
		writeError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Revenue handles GET /api/admin/revenue
func (ac *AdminController) Revenue(c *gin.Context) {
	rev, err := ac.dashboard.Revenue(c.Request.Context())
	if err != nil {
		writeError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

type statusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status
func (ac *AdminController) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := ac.dashboard.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		writeError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}
