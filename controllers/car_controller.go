package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/middleware"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/repositories"
	"github.com/kendall-kelly/fourwheels-api/services"
	"github.com/kendall-kelly/fourwheels-api/utils"
	"github.com/shopspring/decimal"
)

// CarRequest represents the multipart form for creating or updating a car.
// The image travels in the "image" file field.
type CarRequest struct {
	Automaker       uint   `form:"automaker" binding:"required"`
	Model           string `form:"model" binding:"required,max=100"`
	Year            int    `form:"year" binding:"required,gte=1886,lte=2100"`
	BodyStyle       string `form:"bodyStyle" binding:"required"`
	Price           string `form:"price" binding:"required"`
	Colour          string `form:"colour" binding:"required"`
	EngineType      string `form:"engineType" binding:"required"`
	Transmission    string `form:"transmission" binding:"required"`
	Mileage         *int   `form:"mileage" binding:"required,gte=0"`
	SeatingCapacity int    `form:"seatingCapacity" binding:"required,gte=1,lte=100"`
	Status          string `form:"status" binding:"omitempty,oneof=available in-order-progress sold"`
}

// ListCars handles GET /api/v1/cars.
// Query: minPrice, maxPrice (inclusive), automaker, and status (admins only).
// Customers only ever see available cars.
func ListCars(c *gin.Context) {
	filter := repositories.CarFilter{}

	if raw := c.Query("minPrice"); raw != "" {
		minPrice, err := decimal.NewFromString(raw)
		if err != nil || minPrice.IsNegative() {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "minPrice must be a non-negative number")
			return
		}
		filter.MinPrice = &minPrice
	}
	if raw := c.Query("maxPrice"); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil || maxPrice.IsNegative() {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "maxPrice must be a non-negative number")
			return
		}
		filter.MaxPrice = &maxPrice
	}
	if raw := c.Query("automaker"); raw != "" {
		automakerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || automakerID == 0 {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid automaker")
			return
		}
		filter.AutomakerID = uint(automakerID)
	}
	if !applyStatusVisibility(c, &filter) {
		return
	}

	listCars(c, filter)
}

// ListCarsByAutomaker handles GET /api/v1/cars/getByAutomaker/:automaker
func ListCarsByAutomaker(c *gin.Context) {
	automakerID, ok := parseIDParam(c, "automaker")
	if !ok {
		return
	}

	if _, err := repositories.NewAutomakerRepository(config.GetDB()).FindByID(c.Request.Context(), automakerID); err != nil {
		respondAutomakerError(c, err, "Failed to fetch cars")
		return
	}

	filter := repositories.CarFilter{AutomakerID: automakerID}
	if !applyStatusVisibility(c, &filter) {
		return
	}

	listCars(c, filter)
}

// GetCar handles GET /api/v1/cars/:id
func GetCar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	car, err := repositories.NewCarRepository(config.GetDB()).FindByID(c.Request.Context(), id)
	if err != nil {
		respondCarError(c, err, "Failed to fetch car")
		return
	}

	view, err := catalogService().CarView(c.Request.Context(), *car)
	if err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to fetch car", err)
		return
	}

	respondData(c, http.StatusOK, view)
}

// CreateCar handles POST /api/v1/cars (admin only, multipart/form-data)
func CreateCar(c *gin.Context) {
	input, ok := bindCar(c)
	if !ok {
		return
	}
	image, ok := formImage(c)
	if !ok {
		return
	}

	catalog := catalogService()
	car, err := catalog.CreateCar(c.Request.Context(), input, image)
	if err != nil {
		respondCarError(c, err, "Failed to create car")
		return
	}

	view, err := catalog.CarView(c.Request.Context(), *car)
	if err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to load car details", err)
		return
	}

	respondData(c, http.StatusCreated, view)
}

// UpdateCar handles PUT /api/v1/cars/:id (admin only, multipart/form-data).
// The image is replaced and the previous one released.
func UpdateCar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindCar(c)
	if !ok {
		return
	}
	image, ok := formImage(c)
	if !ok {
		return
	}

	catalog := catalogService()
	car, err := catalog.UpdateCar(c.Request.Context(), id, input, image)
	if err != nil {
		respondCarError(c, err, "Failed to update car")
		return
	}

	view, err := catalog.CarView(c.Request.Context(), *car)
	if err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to load car details", err)
		return
	}

	respondData(c, http.StatusOK, view)
}

// DeleteCar handles DELETE /api/v1/cars/:id (admin only)
func DeleteCar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := catalogService().DeleteCar(c.Request.Context(), id); err != nil {
		respondCarError(c, err, "Failed to delete car")
		return
	}

	c.Status(http.StatusNoContent)
}

func listCars(c *gin.Context, filter repositories.CarFilter) {
	cars, err := repositories.NewCarRepository(config.GetDB()).List(c.Request.Context(), filter)
	if err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to fetch cars", err)
		return
	}

	views, err := catalogService().CarViews(c.Request.Context(), cars)
	if err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to fetch cars", err)
		return
	}

	respondData(c, http.StatusOK, views)
}

// applyStatusVisibility pins non-admins to available cars and validates the admin status filter
func applyStatusVisibility(c *gin.Context, filter *repositories.CarFilter) bool {
	if !middleware.IsAdmin(c) {
		filter.Status = models.CarStatusAvailable
		return true
	}

	status := c.Query("status")
	if status != "" && !models.IsValidCarStatus(status) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "status must be available, in-order-progress or sold")
		return false
	}
	filter.Status = status
	return true
}

func bindCar(c *gin.Context) (services.CarInput, bool) {
	var req CarRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return services.CarInput{}, false
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "price must be a non-negative number")
		return services.CarInput{}, false
	}

	return services.CarInput{
		AutomakerID:     req.Automaker,
		Model:           req.Model,
		Year:            req.Year,
		BodyStyle:       req.BodyStyle,
		Price:           price.Round(2),
		Colour:          req.Colour,
		EngineType:      req.EngineType,
		Transmission:    req.Transmission,
		Mileage:         *req.Mileage,
		SeatingCapacity: req.SeatingCapacity,
		Status:          req.Status,
	}, true
}

// formImage reads and validates the "image" file field
func formImage(c *gin.Context) (*multipart.FileHeader, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		fileHeader = nil
	}
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		respondUploadError(c, err)
		return nil, false
	}
	return fileHeader, true
}

func respondCarError(c *gin.Context, err error, message string) {
	var fileErr *utils.FileUploadError
	switch {
	case errors.As(err, &fileErr):
		respondUploadError(c, fileErr)
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, services.ErrCarNotFound):
		respondError(c, http.StatusNotFound, "CAR_NOT_FOUND", "Car not found")
	case errors.Is(err, services.ErrAutomakerNotFound):
		respondError(c, http.StatusNotFound, "AUTOMAKER_NOT_FOUND", "Automaker not found")
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid car status")
	default:
		respondServerError(c, "DATABASE_ERROR", message, err)
	}
}
