package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserInput is the dashboard create payload for a staff account.
type UserInput struct {
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      string   `json:"role"`
	Screens   []string `json:"screens"`
}

func encodeScreens(screens []string) string {
	if len(screens) == 0 {
		return ""
	}
	b, err := json.Marshal(screens)
	if err != nil {
		return ""
	}
	return string(b)
}

// userView strips the hash and decodes the screens list for responses.
func userView(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"role":       u.Role,
		"screens":    u.ScreenList(),
		"suspended":  u.Suspended,
		"created_at": u.CreatedAt,
	}
}

// GetUsers lists a tenant's staff accounts without password hashes.
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      200  {array}   models.User
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/users [get]
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var users []models.User
		err := db.WithContext(c.Request.Context()).
			Table(tenant.Table("users")).
			Order("email ASC").
			Find(&users).Error
		if err != nil {
			log.Printf("list users (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		out := make([]gin.H, 0, len(users))
		for i := range users {
			out = append(out, userView(&users[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// CreateUser registers a staff account. The password is bcrypt-hashed before
// it touches the database.
// @Summary      Create user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      201  {object}  models.User
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/users [post]
func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var in UserInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		role := in.Role
		if role == "" {
			role = models.RoleUser
		}
		if !models.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role", "details": in.Role})
			return
		}

		tx := db.WithContext(c.Request.Context())

		var count int64
		if err := tx.Table(tenant.Table("users")).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			log.Printf("create user (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}

		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			log.Printf("create user (%s): hash failed: %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		now := time.Now()
		user := models.User{
			Email:     in.Email,
			Password:  hash,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Role:      role,
			Screens:   encodeScreens(in.Screens),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Table(tenant.Table("users")).Create(&user).Error; err != nil {
			log.Printf("create user (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, userView(&user))
	}
}

// UpdateUser patches profile fields, role, screens, suspension and optionally
// the password.
// @Summary      Update user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "User ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/users/{id} [put]
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var in struct {
			FirstName *string   `json:"first_name"`
			LastName  *string   `json:"last_name"`
			Role      *string   `json:"role"`
			Screens   *[]string `json:"screens"`
			Suspended *bool     `json:"suspended"`
			Password  *string   `json:"password"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if in.FirstName != nil {
			updates["first_name"] = *in.FirstName
		}
		if in.LastName != nil {
			updates["last_name"] = *in.LastName
		}
		if in.Role != nil {
			if !models.ValidRole(*in.Role) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role", "details": *in.Role})
				return
			}
			updates["role"] = *in.Role
		}
		if in.Screens != nil {
			updates["screens"] = encodeScreens(*in.Screens)
		}
		if in.Suspended != nil {
			updates["suspended"] = *in.Suspended
		}
		if in.Password != nil {
			if len(*in.Password) < 8 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Password too short"})
				return
			}
			hash, hashErr := utils.HashPassword(*in.Password)
			if hashErr != nil {
				log.Printf("update user %d (%s): hash failed: %v", id, tenant, hashErr)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
			updates["password"] = hash
		}
		if len(updates) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No editable fields in payload"})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("users")).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			log.Printf("update user %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User updated"})
	}
}

// DeleteUser removes a staff account. Their sessions die at the next cleanup
// run or token expiry, whichever comes first.
// @Summary      Delete user
// @Tags         Users
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "User ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/users/{id} [delete]
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("users")).
			Where("id = ?", id).
			Delete(&models.User{})
		if result.Error != nil {
			log.Printf("delete user %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
