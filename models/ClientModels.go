package models

import "time"

// Client is a per-tenant customer record ({company}_clients).
type Client struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Organization string    `json:"organization"`
	ContactName  string    `json:"contact_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Rut          string    `json:"rut"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
