package models

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents an account in the system (admin or customer)
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	PhoneNumber string    `gorm:"not null" json:"phoneNumber"`
	Role        string    `gorm:"not null;default:'customer'" json:"role"` // "admin" or "customer"
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}

// UserSummary is the public projection of a user embedded in order views
type UserSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
}

// Summary returns the public projection of u
func (u User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username, PhoneNumber: u.PhoneNumber}
}
