package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CarStatusAvailable       = "available"
	CarStatusInOrderProgress = "in-order-progress"
	CarStatusSold            = "sold"
)

func init() {
	// prices are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Car represents a vehicle listed for sale
type Car struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	AutomakerID     uint            `gorm:"not null;index" json:"automakerId"`
	Model           string          `gorm:"not null" json:"model"`
	Year            int             `gorm:"not null" json:"year"`
	BodyStyle       string          `gorm:"not null" json:"bodyStyle"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null;index" json:"price"`
	Colour          string          `gorm:"not null" json:"colour"`
	EngineType      string          `gorm:"not null" json:"engineType"`
	Transmission    string          `gorm:"not null" json:"transmission"`
	Mileage         int             `gorm:"not null" json:"mileage"`
	SeatingCapacity int             `gorm:"not null" json:"seatingCapacity"`
	ImagePath       string          `gorm:"not null" json:"imagePath"` // storage key of the uploaded image
	Status          string          `gorm:"not null;default:'available';index" json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Car model
func (Car) TableName() string {
	return "cars"
}

// IsValidCarStatus reports whether status is a known car status
func IsValidCarStatus(status string) bool {
	switch status {
	case CarStatusAvailable, CarStatusInOrderProgress, CarStatusSold:
		return true
	}
	return false
}

// CarView is a car joined with its automaker and a resolvable image URL
type CarView struct {
	Car
	Automaker *Automaker `json:"automaker,omitempty"`
	ImageURL  string     `json:"imageUrl,omitempty"`
}
