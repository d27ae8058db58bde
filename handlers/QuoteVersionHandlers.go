package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateQuoteVersion appends an immutable snapshot of the quote document.
// Versions number from 1 and only ever grow.
// @Summary      Save quote version
// @Tags         Versions
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Quote ID"
// @Success      201  {object}  models.QuoteVersion
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id}/versions [post]
func CreateQuoteVersion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		var req struct {
			Payload     string `json:"payload" binding:"required"`
			Correlativo string `json:"correlativo"`
			CreatedBy   string `json:"created_by"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		tx := db.WithContext(c.Request.Context())
		if _, err := models.GetQuote(tx, uint(id)); err != nil {
			if errors.Is(err, models.ErrQuoteNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
				return
			}
			log.Printf("create version for quote %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		v, err := models.AppendQuoteVersion(tx, uint(id), req.Payload, req.Correlativo, req.CreatedBy)
		if err != nil {
			log.Printf("create version for quote %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save version"})
			return
		}

		c.JSON(http.StatusCreated, v)
	}
}

// GetQuoteVersion serves either the latest snapshot or an exact version.
// "No versions yet" is a 404 with a distinct message so the dashboard can
// offer to create the first one; store failures stay 500.
// @Summary      Get quote version
// @Tags         Versions
// @Produce      json
// @Param        id       path  int     true  "Quote ID"
// @Param        version  path  string  true  "Version number or 'latest'"
// @Success      200  {object}  models.QuoteVersion
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id}/versions/{version} [get]
func GetQuoteVersion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		tx := db.WithContext(c.Request.Context())
		selector := c.Param("version")

		var v *models.QuoteVersion
		if selector == "latest" {
			v, err = models.LatestQuoteVersion(tx, uint(id))
		} else {
			n, convErr := strconv.Atoi(selector)
			if convErr != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version selector", "details": selector})
				return
			}
			v, err = models.GetQuoteVersion(tx, uint(id), n)
		}

		if err != nil {
			if errors.Is(err, models.ErrQuoteVersionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No version found for quote"})
				return
			}
			log.Printf("get version %s for quote %d: %v", selector, id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, v)
	}
}

// ListQuoteVersions returns version summaries for a quote, newest first,
// without the payloads.
// @Summary      List quote versions
// @Tags         Versions
// @Produce      json
// @Param        id  path  int  true  "Quote ID"
// @Success      200  {array}  models.QuoteVersionSummary
// @Router       /api/quotes/{id}/versions [get]
func ListQuoteVersions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		versions, err := models.ListQuoteVersions(db.WithContext(c.Request.Context()), uint(id))
		if err != nil {
			log.Printf("list versions for quote %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"quote_id": id, "versions": versions})
	}
}
