package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"backend/models"
	"backend/storage"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Login authenticates a staff account against the tenant's users table and
// opens a session. Returns an access/refresh token pair; the refresh token is
// also persisted on the session row so it can be revoked server-side.
// @Summary      Login
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        company  query  string               true  "Tenant key"
// @Param        request  body   models.LoginRequest  true  "Credentials"
// @Success      200  {object}  models.LoginResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/login [post]
func Login(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		user, err := storage.GetUserByEmail(db, tenant, req.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if user.Suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account suspended"})
			return
		}
		if !utils.ValidatePassword(user.Password, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		sessionID := uuid.New().String()

		accessToken, err := utils.GenerateJWT(user.Email, string(tenant))
		if err != nil {
			log.Printf("login %s (%s): access token: %v", req.Email, tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user.Email, string(tenant), sessionID)
		if err != nil {
			log.Printf("login %s (%s): refresh token: %v", req.Email, tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		now := time.Now()
		session := &models.Session{
			UserID:                int(user.ID),
			Company:               string(tenant),
			SessionID:             sessionID,
			HostName:              c.Request.Host,
			IPAddress:             c.ClientIP(),
			Timestamp:             now,
			ExpiresAt:             now.Add(15 * 24 * time.Hour),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresAt: now.Add(15 * 24 * time.Hour),
		}
		if err := storage.SaveSession(db, session, false); err != nil {
			log.Printf("login %s (%s): save session: %v", req.Email, tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			Message:      "User successfully logged in",
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			SessionID:    sessionID,
			Role:         user.Role,
			User: models.LoginUser{
				ID:      user.ID,
				Email:   user.Email,
				Company: string(tenant),
			},
		})
	}
}

// Logout deletes the caller's session row, revoking its refresh token.
// @Summary      Logout
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/logout [post]
func Logout(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SessionID string `json:"session_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		if err := storage.DeleteSessionByID(db, req.SessionID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// RefreshToken exchanges a valid refresh token for a new access token. The
// token must match the one stored on the session row; a mismatch means the
// session was revoked or rotated.
// @Summary      Refresh access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/refresh [post]
func RefreshToken(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		token, err := utils.ValidateJWT(req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["type"] != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		email, _ := claims["email"].(string)
		company, _ := claims["company"].(string)
		sessionID, _ := claims["sessionId"].(string)
		if email == "" || company == "" || sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}

		stored, err := storage.GetRefreshTokenBySession(db, sessionID)
		if err != nil || stored != req.RefreshToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session revoked"})
			return
		}

		accessToken, err := utils.GenerateJWT(email, company)
		if err != nil {
			log.Printf("refresh for session %s: %v", sessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
	}
}
