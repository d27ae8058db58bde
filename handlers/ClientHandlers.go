package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ClientInput is the dashboard create/update payload for a client record.
type ClientInput struct {
	Organization string `json:"organization" binding:"required"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Rut          string `json:"rut"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Notes        string `json:"notes"`
}

// GetClients lists a tenant's clients.
// @Summary      List clients
// @Tags         Clients
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      200  {array}   models.Client
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/clients [get]
func GetClients(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var clients []models.Client
		err := db.WithContext(c.Request.Context()).
			Table(tenant.Table("clients")).
			Order("organization ASC").
			Find(&clients).Error
		if err != nil {
			log.Printf("list clients (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, clients)
	}
}

// CreateClient adds a client to a tenant's table.
// @Summary      Create client
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      201  {object}  models.Client
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/clients [post]
func CreateClient(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var in ClientInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		now := time.Now()
		client := models.Client{
			Organization: in.Organization,
			ContactName:  in.ContactName,
			Email:        in.Email,
			Phone:        in.Phone,
			Rut:          in.Rut,
			Address:      in.Address,
			City:         in.City,
			Notes:        in.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err := db.WithContext(c.Request.Context()).
			Table(tenant.Table("clients")).
			Create(&client).Error
		if err != nil {
			log.Printf("create client (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
			return
		}

		c.JSON(http.StatusCreated, client)
	}
}

// UpdateClient replaces the editable fields of a client record.
// @Summary      Update client
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "Client ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/clients/{id} [put]
func UpdateClient(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
			return
		}

		var in ClientInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("clients")).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"organization": in.Organization,
				"contact_name": in.ContactName,
				"email":        in.Email,
				"phone":        in.Phone,
				"rut":          in.Rut,
				"address":      in.Address,
				"city":         in.City,
				"notes":        in.Notes,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			log.Printf("update client %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Client updated"})
	}
}

// DeleteClient removes a client record.
// @Summary      Delete client
// @Tags         Clients
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "Client ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/clients/{id} [delete]
func DeleteClient(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("clients")).
			Where("id = ?", id).
			Delete(&models.Client{})
		if result.Error != nil {
			log.Printf("delete client %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
	}
}
