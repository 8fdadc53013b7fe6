package controllers

import (
	"net/http"

	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ConfigurationController struct {
	configurations services.ConfigurationService
	logger         *zap.Logger
}

func NewConfigurationController(configurations services.ConfigurationService, logger *zap.Logger) *ConfigurationController {
	return &ConfigurationController{configurations: configurations, logger: logger}
}

// Create handles POST /api/configurations
func (cc *ConfigurationController) Create(c *gin.Context) {
	var req services.CreateConfigurationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cfg, err := cc.configurations.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

// Get handles GET /api/configurations/:id
func (cc *ConfigurationController) Get(c *gin.Context) {
	cfg, err := cc.configurations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Update handles PATCH /api/configurations/:id
func (cc *ConfigurationController) Update(c *gin.Context) {
	var req services.UpdateConfigurationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cfg, err := cc.configurations.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type presignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignUpload handles POST /api/uploads/presign
func (cc *ConfigurationController) PresignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	upload, err := cc.configurations.PresignUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		writeError(c, cc.logger, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// Options handles GET /api/options
func (cc *ConfigurationController) Options(c *gin.Context) {
	c.JSON(http.StatusOK, models.Catalog())
}
