package storage

import (
	"backend/models"
	"backend/utils"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var db *sql.DB

// InitDB opens the plain database/sql pool used by the auth and session
// paths. Domain tables go through GORM (see gorm_db.go).
func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Pool sized for a light marketing-site load
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

func GetDB() *sql.DB {
	return db
}

// SaveSession inserts a session row for a dashboard user. When
// allowMultipleSessions is false every other device of that user is logged
// out first.
func SaveSession(db *sql.DB, session *models.Session, allowMultipleSessions bool) error {
	if !allowMultipleSessions {
		deleteAllQuery := `DELETE FROM session WHERE user_id = $1 AND company = $2`
		if _, err := db.Exec(deleteAllQuery, session.UserID, session.Company); err != nil {
			return fmt.Errorf("failed to delete all user sessions: %v", err)
		}
	}

	insertQuery := `INSERT INTO session (user_id, company, session_id, host_name, ip_address, timestp, expires_at, refresh_token, refresh_token_expires_at)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := db.Exec(insertQuery, session.UserID, session.Company, session.SessionID, session.HostName,
		session.IPAddress, session.Timestamp, session.ExpiresAt, session.RefreshToken, session.RefreshTokenExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert new session: %v", err)
	}
	return nil
}

// GetSessionByID loads an unexpired session row.
func GetSessionByID(db *sql.DB, sessionID string) (*models.Session, error) {
	var s models.Session
	query := `SELECT user_id, company, session_id, host_name, ip_address, timestp, expires_at
	          FROM session WHERE session_id = $1 AND expires_at > NOW()`
	err := db.QueryRow(query, sessionID).Scan(&s.UserID, &s.Company, &s.SessionID, &s.HostName,
		&s.IPAddress, &s.Timestamp, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, errors.New("session not found or expired")
	} else if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSessionByID deletes a specific session by session_id.
func DeleteSessionByID(db *sql.DB, sessionID string) error {
	result, err := db.Exec(`DELETE FROM session WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session not found or already deleted")
	}
	return nil
}

// SaveRefreshToken binds a refresh token to one session/device.
func SaveRefreshToken(db *sql.DB, sessionID string, refreshToken string, expiresAt time.Time) error {
	result, err := db.Exec(`UPDATE session SET refresh_token = $1, refresh_token_expires_at = $2 WHERE session_id = $3`,
		refreshToken, expiresAt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session not found for session_id: %s", sessionID)
	}
	return nil
}

// GetRefreshTokenBySession retrieves the unexpired refresh token of a session.
func GetRefreshTokenBySession(db *sql.DB, sessionID string) (string, error) {
	var refreshToken string
	err := db.QueryRow(`
		SELECT refresh_token FROM session
		WHERE session_id = $1 AND refresh_token_expires_at > NOW()`, sessionID).Scan(&refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token not found: %v", err)
	}
	return refreshToken, nil
}

// GetUserByEmail looks a staff account up in the tenant's users table. The
// tenant has already passed models.ParseTenant, so the table name is safe to
// build.
func GetUserByEmail(db *sql.DB, tenant models.Tenant, email string) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf(`SELECT id, email, password, first_name, last_name, role, COALESCE(screens, ''), suspended
	                      FROM %s WHERE LOWER(email) = LOWER($1)`, tenant.Table("users"))

	err := db.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.Role, &user.Screens, &user.Suspended)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to query user: %v", err)
	}

	return &user, nil
}

// GetUserBySessionID resolves a session ID to the staff account behind it.
func GetUserBySessionID(db *sql.DB, sessionID string) (*models.User, models.Tenant, error) {
	session, err := GetSessionByID(db, sessionID)
	if err != nil {
		return nil, "", err
	}

	tenant, err := models.ParseTenant(session.Company)
	if err != nil {
		return nil, "", err
	}

	var user models.User
	query := fmt.Sprintf(`SELECT id, email, password, first_name, last_name, role, COALESCE(screens, ''), suspended
	                      FROM %s WHERE id = $1`, tenant.Table("users"))
	err = db.QueryRow(query, session.UserID).Scan(&user.ID, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.Role, &user.Screens, &user.Suspended)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", errors.New("user not found for the given session ID")
		}
		return nil, "", err
	}
	if user.Suspended {
		return nil, "", errors.New("account suspended")
	}

	return &user, tenant, nil
}

// CleanupExpiredSessions removes sessions past their expiry. Run from cron.
func CleanupExpiredSessions(db *sql.DB) error {
	ctx, cancel := utils.GetDefaultQueryContext(context.Background())
	defer cancel()
	_, err := db.ExecContext(ctx, "DELETE FROM session WHERE expires_at < NOW()")
	return err
}

// CleanupExpiredResetTokens removes used or expired password reset tokens
// across every tenant. Run from cron.
func CleanupExpiredResetTokens(db *sql.DB) error {
	ctx, cancel := utils.GetDefaultQueryContext(context.Background())
	defer cancel()
	for _, t := range models.AllTenants {
		query := fmt.Sprintf("DELETE FROM %s WHERE used = true OR expires_at < NOW()",
			t.Table("password_reset_tokens"))
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
