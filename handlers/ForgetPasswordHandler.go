package handlers

import (
	"log"
	"net/http"
	"os"
	"time"

	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResetMailer is the slice of the mail service the reset flow needs.
type ResetMailer interface {
	SendPasswordReset(to, resetLink string) error
}

func resetLink(token string, tenant models.Tenant) string {
	base := os.Getenv("FRONTEND_BASE_URL")
	return base + "/reset-password?token=" + token + "&company=" + string(tenant)
}

// RequestPasswordReset issues a one-shot reset token valid for 15 minutes and
// mails the link. The response is 200 whether or not the email exists, so the
// endpoint cannot be used to probe for accounts.
// @Summary      Request password reset
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/forget-password [post]
func RequestPasswordReset(db *gorm.DB, mailer ResetMailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		accepted := gin.H{"message": "If the account exists, a reset email has been sent"}

		tx := db.WithContext(c.Request.Context())
		var user models.User
		err := tx.Table(tenant.Table("users")).
			Where("LOWER(email) = LOWER(?)", req.Email).
			First(&user).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				log.Printf("password reset (%s): lookup: %v", tenant, err)
			}
			c.JSON(http.StatusOK, accepted)
			return
		}

		token := uuid.New().String()
		record := models.PasswordResetToken{
			UserID:    user.ID,
			Token:     token,
			ExpiresAt: time.Now().Add(15 * time.Minute),
			CreatedAt: time.Now(),
		}
		if err := tx.Table(tenant.Table("password_reset_tokens")).Create(&record).Error; err != nil {
			log.Printf("password reset (%s): save token: %v", tenant, err)
			c.JSON(http.StatusOK, accepted)
			return
		}

		if err := mailer.SendPasswordReset(user.Email, resetLink(token, tenant)); err != nil {
			log.Printf("password reset (%s): send mail: %v", tenant, err)
		}

		c.JSON(http.StatusOK, accepted)
	}
}

// ConfirmPasswordReset consumes a reset token and sets the new password. The
// token is single-use: it is marked used in the same request that changes the
// password.
// @Summary      Confirm password reset
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/reset-password [post]
func ConfirmPasswordReset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var req struct {
			Token    string `json:"token" binding:"required"`
			Password string `json:"password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		tx := db.WithContext(c.Request.Context())

		var record models.PasswordResetToken
		err := tx.Table(tenant.Table("password_reset_tokens")).
			Where("token = ? AND used = ? AND expires_at > ?", req.Token, false, time.Now()).
			First(&record).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				log.Printf("confirm reset (%s): lookup: %v", tenant, err)
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}

		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Printf("confirm reset (%s): hash: %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}

		result := tx.Table(tenant.Table("users")).
			Where("id = ?", record.UserID).
			Updates(map[string]interface{}{"password": hash, "updated_at": time.Now()})
		if result.Error != nil {
			log.Printf("confirm reset (%s): update user: %v", tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}

		if err := tx.Table(tenant.Table("password_reset_tokens")).
			Where("id = ?", record.ID).
			Update("used", true).Error; err != nil {
			log.Printf("confirm reset (%s): mark used: %v", tenant, err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
