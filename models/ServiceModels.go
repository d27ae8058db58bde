package models

import "time"

// Service is a marketing-site service entry ({company}_services).
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Visible     bool      `gorm:"default:true" json:"visible"`
	Orden       int       `json:"orden"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
