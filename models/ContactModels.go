package models

import "time"

// Contact form statuses.
const (
	ContactStatusNew      = "NEW"
	ContactStatusRead     = "READ"
	ContactStatusAnswered = "ANSWERED"
	ContactStatusArchived = "ARCHIVED"
)

// ContactForm is a public contact submission ({company}_contact_forms).
type ContactForm struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `gorm:"not null" json:"message"`
	Status    string    `gorm:"default:NEW" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidContactStatus reports whether s is a status the dashboard can set.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusAnswered, ContactStatusArchived:
		return true
	}
	return false
}
