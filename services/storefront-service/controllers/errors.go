package controllers

import (
	"errors"
	"net/http"

	apperrors "github.com/caseforge/storefront/services/common/errors"
	"github.com/caseforge/storefront/services/common/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError renders a service error as {"error": message}. Causes of 5xx
// errors are logged and never returned to the caller.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal("internal server error", err)
	}

	if appErr.Code >= http.StatusInternalServerError {
		logger.FromContext(c, log).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", appErr.Code),
			zap.Error(err),
		)
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
