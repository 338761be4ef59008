package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/services"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=64"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	PhoneNumber string `json:"phoneNumber" binding:"required,mobile"`
	Role        string `json:"role" binding:"required,oneof=admin customer"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest represents the request body for an admin password reset
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UpdatePasswordRequest represents the request body for a self-service password change
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// UpdatePhoneNumberRequest represents the request body for changing a phone number
type UpdatePhoneNumberRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,mobile"`
}

// Register handles POST /api/v1/auth/register - creates an account and returns a token
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	_, token, err := authService().Register(c.Request.Context(), services.Registration{
		Username:    req.Username,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			respondError(c, http.StatusConflict, "USERNAME_TAKEN", "A user with this username already exists")
		case errors.Is(err, services.ErrInvalidRole):
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Role must be admin or customer")
		case errors.Is(err, services.ErrPasswordTooLong):
			respondPasswordTooLong(c)
		default:
			respondServerError(c, "DATABASE_ERROR", "Failed to create user", err)
		}
		return
	}

	respondData(c, http.StatusCreated, gin.H{"token": token})
}

// Login handles POST /api/v1/auth/login - exchanges credentials for a token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	_, token, err := authService().Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		respondServerError(c, "DATABASE_ERROR", "Failed to log in", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"token": token})
}

// GetCurrentUser handles GET /api/v1/auth - returns the authenticated user
func GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := authService().GetUser(c.Request.Context(), userID)
	if err != nil {
		respondUserError(c, err, "Failed to fetch user")
		return
	}

	respondData(c, http.StatusOK, user)
}

// GetUserByUsername handles GET /api/v1/auth/:username
func GetUserByUsername(c *gin.Context) {
	user, err := authService().GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondUserError(c, err, "Failed to fetch user")
		return
	}

	respondData(c, http.StatusOK, user)
}

// ResetPassword handles PUT /api/v1/auth/:id/passwords/reset - admins set a new password
func ResetPassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := authService().ResetPassword(c.Request.Context(), id, req.Password)
	if err != nil {
		respondUserError(c, err, "Failed to reset password")
		return
	}

	respondData(c, http.StatusOK, user)
}

// UpdatePassword handles PUT /api/v1/auth/:id/passwords/update - users change their own password
func UpdatePassword(c *gin.Context) {
	id, ok := selfIDParam(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := authService().ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			respondError(c, http.StatusForbidden, "WRONG_PASSWORD", "Current password is incorrect")
			return
		}
		respondUserError(c, err, "Failed to update password")
		return
	}

	respondData(c, http.StatusOK, user)
}

// UpdatePhoneNumber handles PUT /api/v1/auth/:id/phoneNumbers/update - users change their own phone number
func UpdatePhoneNumber(c *gin.Context) {
	id, ok := selfIDParam(c)
	if !ok {
		return
	}

	var req UpdatePhoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := authService().UpdatePhoneNumber(c.Request.Context(), id, req.PhoneNumber)
	if err != nil {
		respondUserError(c, err, "Failed to update phone number")
		return
	}

	respondData(c, http.StatusOK, user)
}

// selfIDParam reads :id and requires it to be the caller's own id
func selfIDParam(c *gin.Context) (uint, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return 0, false
	}
	userID, ok := currentUserID(c)
	if !ok {
		return 0, false
	}
	if id != userID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You can only modify your own account")
		return 0, false
	}
	return id, true
}

func respondUserError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, services.ErrPasswordTooLong):
		respondPasswordTooLong(c)
	default:
		respondServerError(c, "DATABASE_ERROR", message, err)
	}
}

func respondPasswordTooLong(c *gin.Context) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR",
		fmt.Sprintf("Password must be at most %d bytes", services.MaxPasswordBytes))
}
