package handlers

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"net/http"
	"strconv"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"gorm.io/gorm"
)

// addLabel draws text onto the image at the given position.
func addLabel(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: inconsolata.Regular8x16,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(label)
}

// addLabelBold draws a field label in the bold face.
func addLabelBold(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{30, 30, 30, 255}),
		Face: inconsolata.Bold8x16,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(label)
}

// GenerateQuoteQRCodeJPEG renders a printable QR label for a quote: the QR
// encodes the public quote link and a caption block below shows the number,
// correlative and customer. Used for the printed copies that travel with
// dispatched material.
// @Summary      Quote QR label as JPEG
// @Tags         Quotes
// @Produce      image/jpeg
// @Param        id  path  int  true  "Quote ID"
// @Success      200  {file}    file  "JPEG image"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id}/qr [get]
func GenerateQuoteQRCodeJPEG(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		quote, err := models.GetQuote(db.WithContext(c.Request.Context()), uint(id))
		if err != nil {
			if errors.Is(err, models.ErrQuoteNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
				return
			}
			log.Printf("qr for quote %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		target := quotePublicURL(quote.QuoteNumber)
		if target == "" {
			target = quote.QuoteNumber
		}

		qr, err := qrcode.New(target, qrcode.Medium)
		if err != nil {
			log.Printf("qr for quote %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
			return
		}

		const qrSize = 256
		const lineHeight = 22
		const captionLines = 3
		totalHeight := qrSize + captionLines*lineHeight + 20

		combined := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combined, combined.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(combined, image.Rect(0, 0, qrSize, qrSize), qr.Image(qrSize), image.Point{}, draw.Over)

		correlative := "N/A"
		if quote.Correlative != nil {
			correlative = *quote.Correlative
		}

		xPos := 10
		startY := qrSize + lineHeight
		addLabelBold(combined, xPos, startY, "Cotizacion:")
		addLabel(combined, xPos+110, startY, quote.QuoteNumber)
		addLabelBold(combined, xPos, startY+lineHeight, "Correlativo:")
		addLabel(combined, xPos+110, startY+lineHeight, correlative)
		addLabelBold(combined, xPos, startY+2*lineHeight, "Cliente:")
		addLabel(combined, xPos+110, startY+2*lineHeight, quote.CustomerName)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combined, nil); err != nil {
			log.Printf("qr for quote %d: encode failed: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode image"})
			return
		}

		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
