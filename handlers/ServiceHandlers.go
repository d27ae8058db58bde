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

// ServiceInput is the dashboard create/update payload for a marketing-site
// service entry.
type ServiceInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Visible     *bool  `json:"visible"`
	Orden       int    `json:"orden"`
}

// GetServices lists a tenant's service entries. The public site gets visible
// entries only; the dashboard passes all=true.
// @Summary      List services
// @Tags         Services
// @Produce      json
// @Param        company  query  string  true   "Tenant key"
// @Param        all      query  bool    false  "Include hidden entries"
// @Success      200  {array}   models.Service
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/services [get]
func GetServices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		q := db.WithContext(c.Request.Context()).
			Table(tenant.Table("services")).
			Order("orden ASC, id ASC")
		if c.Query("all") != "true" {
			q = q.Where("visible = ?", true)
		}

		var services []models.Service
		if err := q.Find(&services).Error; err != nil {
			log.Printf("list services (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, services)
	}
}

// CreateService adds a service entry.
// @Summary      Create service
// @Tags         Services
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      201  {object}  models.Service
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/services [post]
func CreateService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var in ServiceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		visible := true
		if in.Visible != nil {
			visible = *in.Visible
		}
		now := time.Now()
		service := models.Service{
			Title:       in.Title,
			Description: in.Description,
			ImageURL:    in.ImageURL,
			Visible:     visible,
			Orden:       in.Orden,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err := db.WithContext(c.Request.Context()).
			Table(tenant.Table("services")).
			Create(&service).Error
		if err != nil {
			log.Printf("create service (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
			return
		}

		c.JSON(http.StatusCreated, service)
	}
}

// UpdateService replaces the editable fields of a service entry.
// @Summary      Update service
// @Tags         Services
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "Service ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/services/{id} [put]
func UpdateService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
			return
		}

		var in ServiceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		updates := map[string]interface{}{
			"title":       in.Title,
			"description": in.Description,
			"image_url":   in.ImageURL,
			"orden":       in.Orden,
			"updated_at":  time.Now(),
		}
		if in.Visible != nil {
			updates["visible"] = *in.Visible
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("services")).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			log.Printf("update service %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Service updated"})
	}
}

// DeleteService removes a service entry.
// @Summary      Delete service
// @Tags         Services
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "Service ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/services/{id} [delete]
func DeleteService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("services")).
			Where("id = ?", id).
			Delete(&models.Service{})
		if result.Error != nil {
			log.Printf("delete service %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
	}
}
