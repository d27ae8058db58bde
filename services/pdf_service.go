package services

import (
	"bytes"
	"fmt"
	"time"

	"backend/models"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// QuotePDFInput is everything the renderer needs; items must already be
// enriched from the catalog.
type QuotePDFInput struct {
	Quote       models.Quote
	Items       []models.QuoteItem
	GeneratedAt time.Time
	PublicURL   string
}

// itemUnitPrice applies the dashboard price override when present.
func itemUnitPrice(it models.QuoteItem) float64 {
	if it.UpdatePrice != nil {
		return *it.UpdatePrice
	}
	return it.Price
}

// GenerateQuotePDF renders the customer-facing quote document.
func GenerateQuotePDF(in QuotePDFInput) ([]byte, error) {
	titleCaser := cases.Title(language.Und)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetMargins(10, 10, 10)
	pdf.SetFont("Arial", "", 10)

	// --- Header ---
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(130, 10, "COTIZACION")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(60, 10, "FASERCON", "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// --- Quote info ---
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(95, 6, fmt.Sprintf("Numero: %s", in.Quote.QuoteNumber))
	correlative := ""
	if in.Quote.Correlative != nil {
		correlative = *in.Quote.Correlative
	}
	pdf.CellFormat(95, 6, fmt.Sprintf("Correlativo: %s", correlative), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(95, 6, fmt.Sprintf("Fecha: %s", in.GeneratedAt.Format("02-01-2006")))
	pdf.CellFormat(95, 6, fmt.Sprintf("Estado: %s", titleCaser.String(in.Quote.Status)), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// --- Customer block ---
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Datos del cliente")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(190, 6, fmt.Sprintf("%s\n%s\n%s\n%s",
		in.Quote.CustomerName, in.Quote.CustomerEmail, in.Quote.CustomerPhone, in.Quote.CustomerRut),
		"", "", false)
	pdf.Ln(4)

	// --- Item table header ---
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(70, 8, "Producto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Cant.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Unidad", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Precio", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "Dcto (%)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Subtotal", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var grandTotal float64

	for _, item := range in.Items {
		price := itemUnitPrice(item)
		subtotal := price * item.Quantity * (1 - item.Discount/100)
		grandTotal += subtotal

		unit := item.MeasurementUnit
		if item.UnitSize != "" {
			unit = fmt.Sprintf("%s %s", item.UnitSize, item.MeasurementUnit)
		}

		pdf.CellFormat(70, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%.0f", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("$%.0f", price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%.0f", item.Discount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("$%.0f", subtotal), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(160, 8, "Total")
	pdf.CellFormat(30, 8, fmt.Sprintf("$%.0f", grandTotal), "1", 1, "R", false, 0, "")

	// --- QR to the public quote page ---
	if in.PublicURL != "" {
		png, err := qrcode.Encode(in.PublicURL, qrcode.Medium, 256)
		if err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("quote-qr", opts, bytes.NewReader(png))
			pdf.ImageOptions("quote-qr", 10, pdf.GetY()+6, 28, 28, false, opts, 0, "")
		}
	}

	// --- Footer ---
	pdf.SetY(-24)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(190, 5, "Documento generado automaticamente. Precios validos por 15 dias.")
	pdf.Ln(4)
	pdf.Cell(190, 5, "Generado: "+in.GeneratedAt.Format("2006-01-02 15:04:05"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}
