package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DownloadQuotePDF re-renders the quote document on demand for the dashboard.
// The assigned correlative travels in the X-Correlative header so the UI can
// show it without parsing the PDF.
// @Summary      Download quote PDF
// @Tags         Quotes
// @Produce      application/pdf
// @Param        id  path  int  true  "Quote ID"
// @Success      200  {file}    file  "PDF document"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id}/pdf [get]
func DownloadQuotePDF(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		tx := db.WithContext(c.Request.Context())
		quote, err := models.GetQuote(tx, uint(id))
		if err != nil {
			if errors.Is(err, models.ErrQuoteNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
				return
			}
			log.Printf("pdf for quote %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		items, err := models.GetQuoteItems(tx, quote.ID)
		if err != nil {
			log.Printf("pdf for quote %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		ids := make([]uint, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		catalog, err := models.ProductsByIDs(tx, ids)
		if err != nil {
			log.Printf("pdf for quote %d: catalog load failed: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product catalog"})
			return
		}
		enrichItems(items, catalog)

		pdfBytes, err := services.GenerateQuotePDF(services.QuotePDFInput{
			Quote:       *quote,
			Items:       items,
			GeneratedAt: time.Now(),
			PublicURL:   quotePublicURL(quote.QuoteNumber),
		})
		if err != nil {
			log.Printf("pdf for quote %d: render failed: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}

		if quote.Correlative != nil {
			c.Header("X-Correlative", *quote.Correlative)
		}
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=cotizacion_%s.pdf", quote.QuoteNumber))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}
