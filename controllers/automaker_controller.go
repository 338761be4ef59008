package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/repositories"
	"github.com/kendall-kelly/fourwheels-api/services"
	"go.uber.org/zap"
)

// AutomakerRequest represents the request body for creating or renaming an automaker
type AutomakerRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ListAutomakers handles GET /api/v1/automakers
func ListAutomakers(c *gin.Context) {
	automakers, err := repositories.NewAutomakerRepository(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to fetch automakers", err)
		return
	}

	respondData(c, http.StatusOK, automakers)
}

// GetAutomaker handles GET /api/v1/automakers/:id
func GetAutomaker(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	automaker, err := repositories.NewAutomakerRepository(config.GetDB()).FindByID(c.Request.Context(), id)
	if err != nil {
		respondAutomakerError(c, err, "Failed to fetch automaker")
		return
	}

	respondData(c, http.StatusOK, automaker)
}

// CreateAutomaker handles POST /api/v1/automakers (admin only)
func CreateAutomaker(c *gin.Context) {
	var req AutomakerRequest
	if !bindAutomaker(c, &req) {
		return
	}

	repo := repositories.NewAutomakerRepository(config.GetDB())
	if taken, err := repo.NameTaken(c.Request.Context(), req.Name, 0); err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to create automaker", err)
		return
	} else if taken {
		respondAutomakerExists(c)
		return
	}

	automaker := models.Automaker{Name: req.Name}
	if err := repo.Create(c.Request.Context(), &automaker); err != nil {
		respondAutomakerError(c, err, "Failed to create automaker")
		return
	}

	respondData(c, http.StatusCreated, automaker)
}

// UpdateAutomaker handles PUT /api/v1/automakers/:id (admin only)
func UpdateAutomaker(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AutomakerRequest
	if !bindAutomaker(c, &req) {
		return
	}

	repo := repositories.NewAutomakerRepository(config.GetDB())
	if taken, err := repo.NameTaken(c.Request.Context(), req.Name, id); err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to update automaker", err)
		return
	} else if taken {
		respondAutomakerExists(c)
		return
	}

	automaker, err := repo.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		respondAutomakerError(c, err, "Failed to update automaker")
		return
	}

	respondData(c, http.StatusOK, automaker)
}

// DeleteAutomaker handles DELETE /api/v1/automakers/:id (admin only).
// Cars of the automaker and their orders are removed with it.
func DeleteAutomaker(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	removed, err := catalogService().DeleteAutomaker(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAutomakerNotFound) {
			respondError(c, http.StatusNotFound, "AUTOMAKER_NOT_FOUND", "Automaker not found")
			return
		}
		respondServerError(c, "DATABASE_ERROR", "Failed to delete automaker", err)
		return
	}

	config.GetLogger().Info("automaker deleted", zap.Uint("automaker_id", id), zap.Int("cars_removed", removed))
	c.Status(http.StatusNoContent)
}

func bindAutomaker(c *gin.Context, req *AutomakerRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondValidationError(c, err)
		return false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name must not be blank")
		return false
	}
	return true
}

func respondAutomakerExists(c *gin.Context) {
	respondError(c, http.StatusConflict, "AUTOMAKER_EXISTS", "An automaker with this name already exists")
}

func respondAutomakerError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		respondError(c, http.StatusNotFound, "AUTOMAKER_NOT_FOUND", "Automaker not found")
	case errors.Is(err, repositories.ErrDuplicate):
		respondAutomakerExists(c)
	default:
		respondServerError(c, "DATABASE_ERROR", message, err)
	}
}
