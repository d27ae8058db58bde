package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// quotePublicURL builds the link encoded into the PDF's QR code.
func quotePublicURL(quoteNumber string) string {
	base := os.Getenv("FRONTEND_BASE_URL")
	if base == "" {
		return ""
	}
	return base + "/cotizacion/" + quoteNumber
}

// enrichItems overwrites the client-cached fields of each item with the
// catalog row. Submitted values are only a cache and must not drive the
// generated document.
func enrichItems(items []models.QuoteItem, catalog map[uint]models.Product) {
	for i := range items {
		p, ok := catalog[items[i].ProductID]
		if !ok {
			continue
		}
		items[i].Name = p.Name
		items[i].SKU = p.SKU
		items[i].Price = p.Price
		items[i].UnitSize = p.UnitSize
		items[i].MeasurementUnit = p.MeasurementUnit
		items[i].Characteristics = p.Characteristics
		if img := p.FirstImage(); img != "" {
			items[i].ImageURL = img
		}
	}
}

// SubmitQuote handles the public quote submission flow: validate, persist
// quote and items, enrich from the catalog, render the PDF and email it.
// The email leg is non-fatal: the quote stays committed and the response
// carries email_success=false.
// @Summary      Submit quote
// @Description  Public endpoint. Persists a quote with its cart items, generates the PDF and emails it to the customer plus an internal copy.
// @Tags         Quotes
// @Accept       json
// @Produce      json
// @Param        request  body      models.QuoteSubmissionRequest  true  "Contact and cart items"
// @Success      201      {object}  models.QuoteSubmissionResponse
// @Failure      400      {object}  models.ErrorResponse
// @Failure      500      {object}  models.ErrorResponse
// @Failure      503      {object}  models.ErrorResponse
// @Router       /api/quotes [post]
func SubmitQuote(db *gorm.DB, mailer services.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fail fast before any insert when the service-role connection was
		// never configured.
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Quote service not available"})
			return
		}

		var req models.QuoteSubmissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		// Submission covers DB writes plus PDF rendering and SMTP, so it gets
		// the slow-call budget instead of the default query timeout.
		ctx, cancel := utils.GetQueryContext(c.Request.Context(), utils.SlowCallTimeout)
		defer cancel()

		tx := db.WithContext(ctx)
		now := time.Now()

		_, next, corrErr := NextCorrelative(tx)
		if corrErr != nil {
			log.Printf("submit quote: correlative scan failed, assigning %s: %v", next, corrErr)
		}

		quote := models.Quote{
			CustomerName:  req.Contact.Company,
			CustomerEmail: req.Contact.Email,
			CustomerPhone: req.Contact.Phone,
			CustomerRut:   req.Contact.Rut,
			// Placeholders for the deprecated flat-calculator columns.
			Width:          1,
			Length:         1,
			Area:           1,
			MaterialType:   "PRE-SALE",
			EstimatedPrice: 0,
			Status:         models.QuoteStatusPending,
			QuoteNumber:    repository.GenerateQuoteNumber(now),
			Correlative:    &next,
			CreatedAt:      now,
		}
		if err := tx.Create(&quote).Error; err != nil {
			log.Printf("submit quote: insert failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save quote"})
			return
		}

		itemsSaved := 0
		for i, in := range req.Items {
			row := quoteItemRow(quote.ID, i+1, in, req.Contact)
			if err := InsertQuoteItemRow(tx, row); err != nil {
				log.Printf("submit quote %d: item %d insert failed: %v", quote.ID, i+1, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":    "Failed to save quote items",
					"quote_id": quote.ID,
				})
				return
			}
			itemsSaved++
		}

		ids := make([]uint, 0, len(req.Items))
		for _, in := range req.Items {
			ids = append(ids, in.ProductID)
		}
		catalog, err := models.ProductsByIDs(tx, ids)
		if err != nil {
			// Without authoritative pricing the PDF would carry unverified
			// client-side numbers; abort instead.
			log.Printf("submit quote %d: product enrichment failed: %v", quote.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product catalog"})
			return
		}

		items, err := models.GetQuoteItems(tx, quote.ID)
		if err != nil {
			log.Printf("submit quote %d: reload items failed: %v", quote.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		enrichItems(items, catalog)

		emailOK := false
		pdfBytes, err := services.GenerateQuotePDF(services.QuotePDFInput{
			Quote:       quote,
			Items:       items,
			GeneratedAt: now,
			PublicURL:   quotePublicURL(quote.QuoteNumber),
		})
		if err != nil {
			log.Printf("submit quote %d: pdf generation failed: %v", quote.ID, err)
		} else {
			data := models.EmailData{
				CustomerName: req.Contact.Company,
				Email:        req.Contact.Email,
				QuoteNumber:  quote.QuoteNumber,
				Correlative:  next,
				CompanyName:  req.Contact.Company,
			}
			if err := mailer.SendQuotePDF(data, pdfBytes); err != nil {
				log.Printf("submit quote %d: customer email failed: %v", quote.ID, err)
			} else {
				emailOK = true
			}
			// Internal copy is independent; its failure only gets logged.
			if err := mailer.SendInternalCopy(data, pdfBytes); err != nil {
				log.Printf("submit quote %d: internal copy failed: %v", quote.ID, err)
			}
		}

		c.JSON(http.StatusCreated, models.QuoteSubmissionResponse{
			QuoteID:      quote.ID,
			QuoteNumber:  quote.QuoteNumber,
			Correlative:  next,
			ItemsSaved:   itemsSaved,
			EmailSuccess: emailOK,
		})
	}
}

// GetAllQuotes lists quotes for the dashboard, newest first, paginated.
// @Summary      List quotes
// @Tags         Quotes
// @Produce      json
// @Param        page       query  int  false  "Page number"
// @Param        page_size  query  int  false  "Page size (max 100)"
// @Success      200  {object}  models.PaginatedResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /api/quotes [get]
func GetAllQuotes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		if page < 1 {
			page = 1
		}
		if pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}

		tx := db.WithContext(c.Request.Context())

		var total int64
		if err := tx.Model(&models.Quote{}).Count(&total).Error; err != nil {
			log.Printf("list quotes: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		var quotes []models.Quote
		err := tx.Order("created_at DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&quotes).Error
		if err != nil {
			log.Printf("list quotes: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
		c.JSON(http.StatusOK, models.PaginatedResponse{
			Data: quotes,
			Pagination: models.Pagination{
				CurrentPage:  page,
				PageSize:     pageSize,
				TotalRecords: int(total),
				TotalPages:   totalPages,
				HasNext:      page < totalPages,
				HasPrev:      page > 1,
			},
		})
	}
}

// GetQuoteByID returns one quote with its items.
// @Summary      Get quote
// @Tags         Quotes
// @Produce      json
// @Param        id  path  int  true  "Quote ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id} [get]
func GetQuoteByID(db *gorm.DB) gin.HandlerFunc {
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
			log.Printf("get quote %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		items, err := models.GetQuoteItems(tx, quote.ID)
		if err != nil {
			log.Printf("get quote %d items: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"quote": quote, "items": items})
	}
}

// quotePatchable lists the quote columns the dashboard may change in place.
var quotePatchable = map[string]bool{
	"status": true, "customer_name": true, "customer_email": true,
	"customer_phone": true, "customer_rut": true, "estimated_price": true,
	"correlative": true,
}

var validQuoteStatus = map[string]bool{
	models.QuoteStatusPending:  true,
	models.QuoteStatusSent:     true,
	models.QuoteStatusApproved: true,
	models.QuoteStatusRejected: true,
}

// UpdateQuote patches quote fields, including status transitions. Quotes are
// never hard-deleted; REJECTED is the terminal soft state.
// @Summary      Update quote
// @Tags         Quotes
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Quote ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id} [patch]
func UpdateQuote(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		var patch map[string]interface{}
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		updates := map[string]interface{}{}
		for k, v := range patch {
			if quotePatchable[k] {
				updates[k] = v
			}
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No editable fields in payload"})
			return
		}

		if s, ok := updates["status"].(string); ok && !validQuoteStatus[s] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "details": s})
			return
		}

		result := db.WithContext(c.Request.Context()).
			Model(&models.Quote{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			log.Printf("update quote %d: %v", id, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Quote updated"})
	}
}
