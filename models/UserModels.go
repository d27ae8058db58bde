package models

import (
	"encoding/json"
	"time"
)

// Dashboard roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleDev   = "dev"
)

// User is a dashboard staff account ({company}_users). Password holds the
// bcrypt hash, never the plaintext. Screens is a JSON-encoded array of
// dashboard screen keys the account may open.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `gorm:"default:user" json:"role"`
	Screens   string    `json:"-"`
	Suspended bool      `gorm:"default:false" json:"suspended"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether r is one of the known role keys.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUser || r == RoleDev
}

// ScreenList decodes the screens allow-list. A corrupt or empty column means
// no extra screens, not an error.
func (u *User) ScreenList() []string {
	if u.Screens == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(u.Screens), &out); err != nil {
		return nil
	}
	return out
}

// CanAccessScreen checks the allow-list; admins see everything.
func (u *User) CanAccessScreen(screen string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, s := range u.ScreenList() {
		if s == screen {
			return true
		}
	}
	return false
}

// Session is one logged-in device. Stored in the shared session table keyed
// by the tenant the user belongs to.
type Session struct {
	UserID                int       `json:"user_id"`
	Company               string    `json:"company"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestamp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"-"`
}

// PasswordResetToken is a one-shot reset record ({company}_password_reset_tokens).
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}
