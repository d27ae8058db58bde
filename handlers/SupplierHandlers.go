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

// SupplierInput is the dashboard create/update payload for a supplier.
type SupplierInput struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Rut         string `json:"rut"`
	Address     string `json:"address"`
	Category    string `json:"category"`
	Notes       string `json:"notes"`
}

// GetSuppliers lists a tenant's suppliers.
// @Summary      List suppliers
// @Tags         Suppliers
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      200  {array}   models.Supplier
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/suppliers [get]
func GetSuppliers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var suppliers []models.Supplier
		err := db.WithContext(c.Request.Context()).
			Table(tenant.Table("suppliers")).
			Order("name ASC").
			Find(&suppliers).Error
		if err != nil {
			log.Printf("list suppliers (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, suppliers)
	}
}

// CreateSupplier adds a supplier to a tenant's table.
// @Summary      Create supplier
// @Tags         Suppliers
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Success      201  {object}  models.Supplier
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/suppliers [post]
func CreateSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}

		var in SupplierInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		now := time.Now()
		supplier := models.Supplier{
			Name:        in.Name,
			ContactName: in.ContactName,
			Email:       in.Email,
			Phone:       in.Phone,
			Rut:         in.Rut,
			Address:     in.Address,
			Category:    in.Category,
			Notes:       in.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err := db.WithContext(c.Request.Context()).
			Table(tenant.Table("suppliers")).
			Create(&supplier).Error
		if err != nil {
			log.Printf("create supplier (%s): %v", tenant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
			return
		}

		c.JSON(http.StatusCreated, supplier)
	}
}

// UpdateSupplier replaces the editable fields of a supplier record.
// @Summary      Update supplier
// @Tags         Suppliers
// @Accept       json
// @Produce      json
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "Supplier ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/suppliers/{id} [put]
func UpdateSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
			return
		}

		var in SupplierInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("suppliers")).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"name":         in.Name,
				"contact_name": in.ContactName,
				"email":        in.Email,
				"phone":        in.Phone,
				"rut":          in.Rut,
				"address":      in.Address,
				"category":     in.Category,
				"notes":        in.Notes,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			log.Printf("update supplier %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Supplier updated"})
	}
}

// DeleteSupplier removes a supplier record.
// @Summary      Delete supplier
// @Tags         Suppliers
// @Param        company  query  string  true  "Tenant key"
// @Param        id       path   int     true  "Supplier ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/suppliers/{id} [delete]
func DeleteSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := requireTenant(c)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Table(tenant.Table("suppliers")).
			Where("id = ?", id).
			Delete(&models.Supplier{})
		if result.Error != nil {
			log.Printf("delete supplier %d (%s): %v", id, tenant, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted"})
	}
}
