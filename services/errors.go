package services

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrAutomakerNotFound  = errors.New("automaker not found")
	ErrCarNotFound        = errors.New("car not found")
	ErrCarUnavailable     = errors.New("car is not available")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderClosed        = errors.New("order is closed")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)
