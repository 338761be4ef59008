package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/middleware"
	"github.com/kendall-kelly/fourwheels-api/services"
	"github.com/kendall-kelly/fourwheels-api/utils"
	"go.uber.org/zap"
)

func init() {
	utils.RegisterValidators()
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// respondServerError logs err with the request id and answers with a generic message
func respondServerError(c *gin.Context, code, message string, err error) {
	config.GetLogger().Error(message,
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("code", code),
		zap.Error(err),
	)
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, code, message)
}

// respondUploadError maps image validation failures to 400 and anything else to 500
func respondUploadError(c *gin.Context, err error) {
	if fileErr, ok := err.(*utils.FileUploadError); ok {
		respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
		return
	}
	respondServerError(c, "STORAGE_ERROR", "Failed to store image", err)
}

// parseIDParam reads a positive numeric path parameter, answering 400 INVALID_ID otherwise
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUserID reads the authenticated caller, answering 401 when it is missing
func currentUserID(c *gin.Context) (uint, bool) {
	id, err := middleware.GetCurrentUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return 0, false
	}
	return id, true
}

func authService() *services.AuthService {
	return services.NewAuthService(config.GetDB(), services.GetTokenService())
}

func catalogService() *services.CatalogService {
	return services.NewCatalogService(config.GetDB(), services.GetImageService())
}

func orderService() *services.OrderService {
	return services.NewOrderService(config.GetDB(), catalogService())
}
