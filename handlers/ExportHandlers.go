package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportQuotesXLSX streams all quotes as an Excel workbook for back-office
// reporting. One row per quote plus a detail sheet with every item line.
// @Summary      Export quotes as XLSX
// @Tags         Quotes
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file  "XLSX workbook"
// @Failure      500  {object}  models.ErrorResponse
// @Router       /api/quotes/export [get]
func ExportQuotesXLSX(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := db.WithContext(c.Request.Context())

		var quotes []models.Quote
		if err := tx.Order("created_at DESC").Find(&quotes).Error; err != nil {
			log.Printf("export quotes: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		var items []models.QuoteItem
		if err := tx.Order("quote_id ASC, orden ASC").Find(&items).Error; err != nil {
			log.Printf("export quote items: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				log.Printf("export quotes: close workbook: %v", err)
			}
		}()

		quoteSheet := "Cotizaciones"
		index, err := f.NewSheet(quoteSheet)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		headerStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
		})

		quoteHeaders := []string{"ID", "Correlativo", "Numero", "Cliente", "Email", "Telefono", "RUT", "Estado", "Fecha"}
		for i, h := range quoteHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(quoteSheet, cell, h)
		}
		endCell, _ := excelize.CoordinatesToCellName(len(quoteHeaders), 1)
		f.SetCellStyle(quoteSheet, "A1", endCell, headerStyle)

		for r, q := range quotes {
			correlative := ""
			if q.Correlative != nil {
				correlative = *q.Correlative
			}
			row := []interface{}{
				q.ID, correlative, q.QuoteNumber, q.CustomerName, q.CustomerEmail,
				q.CustomerPhone, q.CustomerRut, q.Status, q.CreatedAt.Format("2006-01-02 15:04"),
			}
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				f.SetCellValue(quoteSheet, cell, v)
			}
		}
		f.SetColWidth(quoteSheet, "B", "E", 22)

		itemSheet := "Items"
		if _, err := f.NewSheet(itemSheet); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		itemHeaders := []string{"Cotizacion", "Producto", "SKU", "Cantidad", "Precio", "Precio Ajustado", "Descuento", "Unidad"}
		for i, h := range itemHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(itemSheet, cell, h)
		}
		itemEnd, _ := excelize.CoordinatesToCellName(len(itemHeaders), 1)
		f.SetCellStyle(itemSheet, "A1", itemEnd, headerStyle)

		for r, it := range items {
			updatePrice := ""
			if it.UpdatePrice != nil {
				updatePrice = fmt.Sprintf("%.2f", *it.UpdatePrice)
			}
			row := []interface{}{
				it.QuoteID, it.Name, it.SKU, it.Quantity, it.Price,
				updatePrice, it.Discount, it.MeasurementUnit,
			}
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				f.SetCellValue(itemSheet, cell, v)
			}
		}

		filename := fmt.Sprintf("cotizaciones_%s.xlsx", time.Now().Format("20060102"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment;filename="+filename)
		if err := f.Write(c.Writer); err != nil {
			log.Printf("export quotes: write workbook: %v", err)
		}
	}
}
