package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/middleware"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/repositories"
	"github.com/kendall-kelly/fourwheels-api/services"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Car             uint   `json:"car" binding:"required"`
	ShippingAddress string `json:"shippingAddress" binding:"required,max=500"`
}

// UpdateOrderRequest represents the request body for updating an order (admin only)
type UpdateOrderRequest struct {
	Status      *string          `json:"status" binding:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	ShippingFee *decimal.Decimal `json:"shippingFee"`
}

// CreateOrder handles POST /api/v1/orders - orders an available car (customers only)
func CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	orders := orderService()
	order, err := orders.PlaceOrder(c.Request.Context(), userID, req.Car, req.ShippingAddress)
	if err != nil {
		respondOrderError(c, err, "Failed to create order")
		return
	}

	respondOrderView(c, orders, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders - every order, optionally by status (admins only).
// Delivered orders are hidden unless requested by status.
func ListOrders(c *gin.Context) {
	listOrders(c, repositories.OrderFilter{Status: c.Query("status")})
}

// ListMyOrders handles GET /api/v1/orders/users - the caller's own orders (customers only)
func ListMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listOrders(c, repositories.OrderFilter{UserID: userID, Status: c.Query("status")})
}

// GetOrder handles GET /api/v1/orders/:id.
// Customers can only read their own orders.
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders := orderService()
	order, err := orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err, "Failed to fetch order")
		return
	}

	if !middleware.IsAdmin(c) && order.UserID != userID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to view this order")
		return
	}

	respondOrderView(c, orders, http.StatusOK, order)
}

// UpdateOrder handles PUT /api/v1/orders/:id - changes status and/or shipping fee (admins only)
func UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if req.Status == nil && req.ShippingFee == nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Provide status or shippingFee")
		return
	}
	if req.ShippingFee != nil {
		if req.ShippingFee.IsNegative() {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "shippingFee must not be negative")
			return
		}
		fee := req.ShippingFee.Round(2)
		req.ShippingFee = &fee
	}

	orders := orderService()
	order, err := orders.UpdateOrder(c.Request.Context(), id, services.OrderUpdate{
		Status:      req.Status,
		ShippingFee: req.ShippingFee,
	})
	if err != nil {
		respondOrderError(c, err, "Failed to update order")
		return
	}

	respondOrderView(c, orders, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id (admins only).
// An active order's car becomes available again.
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := orderService().DeleteOrder(c.Request.Context(), id); err != nil {
		respondOrderError(c, err, "Failed to delete order")
		return
	}

	c.Status(http.StatusNoContent)
}

func listOrders(c *gin.Context, filter repositories.OrderFilter) {
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order status")
		return
	}

	orders := orderService()
	list, err := orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondOrderError(c, err, "Failed to fetch orders")
		return
	}

	views, err := orders.OrderViews(c.Request.Context(), list)
	if err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to fetch orders", err)
		return
	}

	respondData(c, http.StatusOK, views)
}

func respondOrderView(c *gin.Context, orders *services.OrderService, status int, order *models.Order) {
	view, err := orders.OrderView(c.Request.Context(), *order)
	if err != nil {
		respondServerError(c, "DATABASE_ERROR", "Failed to load order details", err)
		return
	}
	respondData(c, status, view)
}

func respondOrderError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, services.ErrCarNotFound):
		respondError(c, http.StatusNotFound, "CAR_NOT_FOUND", "Car not found")
	case errors.Is(err, services.ErrCarUnavailable):
		respondError(c, http.StatusConflict, "CAR_UNAVAILABLE", "Car is not available for order")
	case errors.Is(err, services.ErrOrderClosed):
		respondError(c, http.StatusConflict, "ORDER_CLOSED", "Delivered or cancelled orders cannot be changed")
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order status")
	default:
		respondServerError(c, "DATABASE_ERROR", message, err)
	}
}
