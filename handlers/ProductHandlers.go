package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductInput is the dashboard create/update payload. Characteristics and
// image_url accept either a JSON array or a plain string; both are stored raw
// and normalized on read.
type ProductInput struct {
	Name            string  `json:"name" binding:"required"`
	SKU             string  `json:"sku"`
	Price           float64 `json:"price"`
	UnitSize        string  `json:"unit_size"`
	MeasurementUnit string  `json:"measurement_unit"`
	Characteristics string  `json:"characteristics"`
	ImageURL        string  `json:"image_url"`
	Visible         *bool   `json:"visible"`
	Orden           int     `json:"orden"`
}

// GetProducts lists the catalog. The public site gets visible products only;
// the dashboard passes all=true for the full set.
// @Summary      List products
// @Tags         Products
// @Produce      json
// @Param        all  query  bool  false  "Include hidden products"
// @Success      200  {array}  models.Product
// @Router       /api/products [get]
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := db.WithContext(c.Request.Context())

		var (
			rows []models.Product
			err  error
		)
		if c.Query("all") == "true" {
			err = tx.Order("orden ASC, id ASC").Find(&rows).Error
		} else {
			rows, err = models.VisibleProducts(tx)
		}
		if err != nil {
			log.Printf("list products: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		out := make([]gin.H, 0, len(rows))
		for i := range rows {
			p := &rows[i]
			out = append(out, gin.H{
				"id":               p.ID,
				"name":             p.Name,
				"sku":              p.SKU,
				"price":            p.Price,
				"unit_size":        p.UnitSize,
				"measurement_unit": p.MeasurementUnit,
				"characteristics":  p.CharacteristicsList(),
				"images":           p.Images(),
				"visible":          p.Visible,
				"orden":            p.Orden,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetProductByID returns one catalog entry with normalized list fields.
// @Summary      Get product
// @Tags         Products
// @Produce      json
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  models.Product
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/products/{id} [get]
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		p, err := models.GetProduct(db.WithContext(c.Request.Context()), uint(id))
		if err != nil {
			if errors.Is(err, models.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			log.Printf("get product %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":               p.ID,
			"name":             p.Name,
			"sku":              p.SKU,
			"price":            p.Price,
			"unit_size":        p.UnitSize,
			"measurement_unit": p.MeasurementUnit,
			"characteristics":  p.CharacteristicsList(),
			"images":           p.Images(),
			"visible":          p.Visible,
			"orden":            p.Orden,
		})
	}
}

// CreateProduct adds a catalog entry.
// @Summary      Create product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.Product
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/products [post]
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		visible := true
		if in.Visible != nil {
			visible = *in.Visible
		}
		now := time.Now()
		p := models.Product{
			Name:            in.Name,
			SKU:             in.SKU,
			Price:           in.Price,
			UnitSize:        in.UnitSize,
			MeasurementUnit: in.MeasurementUnit,
			Characteristics: in.Characteristics,
			ImageURL:        in.ImageURL,
			Visible:         visible,
			Orden:           in.Orden,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
			log.Printf("create product: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, p)
	}
}

// UpdateProduct replaces the editable fields of a catalog entry.
// @Summary      Update product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/products/{id} [put]
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var in ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		updates := map[string]interface{}{
			"name":             in.Name,
			"sku":              in.SKU,
			"price":            in.Price,
			"unit_size":        in.UnitSize,
			"measurement_unit": in.MeasurementUnit,
			"characteristics":  in.Characteristics,
			"image_url":        in.ImageURL,
			"orden":            in.Orden,
			"updated_at":       time.Now(),
		}
		if in.Visible != nil {
			updates["visible"] = *in.Visible
		}

		result := db.WithContext(c.Request.Context()).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			log.Printf("update product %d: %v", id, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
	}
}

// DeleteProduct removes a catalog entry. Existing quote items keep their
// denormalized copy of the product data.
// @Summary      Delete product
// @Tags         Products
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/products/{id} [delete]
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Where("id = ?", id).
			Delete(&models.Product{})
		if result.Error != nil {
			log.Printf("delete product %d: %v", id, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
