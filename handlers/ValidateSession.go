package handlers

import (
	"database/sql"
	"net/http"

	"backend/storage"

	"github.com/gin-gonic/gin"
)

// ValidateSession checks whether a session ID is still live and returns the
// account behind it. The dashboard calls this on page load.
// @Summary      Validate session
// @Tags         Auth
// @Produce      json
// @Param        session_id  query  string  true  "Session ID"
// @Success      200  {object}  models.ValidateSessionResponse
// @Failure      401  {object}  models.ValidateSessionResponse
// @Router       /api/validate-session [get]
func ValidateSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "session_id is required"})
			return
		}

		user, tenant, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid":   true,
			"email":   user.Email,
			"company": string(tenant),
			"role":    user.Role,
			"screens": user.ScreenList(),
		})
	}
}
