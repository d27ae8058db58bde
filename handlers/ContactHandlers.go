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

// ContactFormInput is the public contact submission payload.
type ContactFormInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// SubmitContactForm stores a public contact submission for a tenant. No mail
// is sent; forms are worked from the dashboard inbox.
// @Summary      Submit contact form
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      201  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/contact [post]
func SubmitContactForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Contact service not available"})
			return
		}

		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var in ContactFormInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		form := models.ContactForm{
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			Subject:   in.Subject,
			Message:   in.Message,
			Status:    models.ContactStatusNew,
			CreatedAt: time.Now(),
		}
		err := db.WithContext(c.Request.Context()).
			Table(tenant.Table("contact_forms")).
			Create(&form).Error
		if err != nil {
			log.Printf("contact form (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contact form"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Contact form received", "id": form.ID})
	}
}

// GetContactForms lists a tenant's contact inbox, newest first. Optional
// status filter.
// @Summary      List contact forms
// @Tags         Contact
// @Produce      json
// @Param        company  query  string  true   "Tenant key"
// @Param        status   query  string  false  "Filter by status"
// @Success      200  {array}   models.ContactForm
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/contact [get]
func GetContactForms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		q := db.WithContext(c.Request.Context()).
			Table(tenant.Table("contact_forms")).
			Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			if !models.ValidContactStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "details": status})
				return
			}
			q = q.Where("status = ?", status)
		}

		var forms []models.ContactForm
		if err := q.Find(&forms).Error; err != nil {
			log.Printf("list contact forms (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, forms)
	}
}

// UpdateContactFormStatus moves a contact form through its workflow states.
// @Summary      Update contact form status
// @Tags         Contact
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "Form ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/contact/{id}/status [patch]
func UpdateContactFormStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form ID"})
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if !models.ValidContactStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "details": req.Status})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("contact_forms")).
			Where("id = ?", id).
			Update("status", req.Status)
		if result.Error != nil {
			log.Printf("update contact form %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact form not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
	}
}
