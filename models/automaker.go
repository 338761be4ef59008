package models

import "time"

// Automaker represents a vehicle manufacturer
type Automaker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Automaker model
func (Automaker) TableName() string {
	return "automakers"
}
