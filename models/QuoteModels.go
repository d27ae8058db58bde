package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Quote statuses as shown in the dashboard.
const (
	QuoteStatusPending  = "PENDING"
	QuoteStatusSent     = "SENT"
	QuoteStatusApproved = "APPROVED"
	QuoteStatusRejected = "REJECTED"
)

var (
	ErrQuoteNotFound        = errors.New("quote not found")
	ErrQuoteVersionNotFound = errors.New("quote version not found")
)

// Quote is one row of fasercon_quotes. Width/Length/Area/MaterialType are
// leftovers from the old flat calculator; the item-based flow writes
// placeholders into them and never reads them back.
type Quote struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CustomerName   string    `json:"customer_name"`
	CustomerEmail  string    `json:"customer_email"`
	CustomerPhone  string    `json:"customer_phone"`
	CustomerRut    string    `json:"customer_rut"`
	Width          float64   `json:"width"`
	Length         float64   `json:"length"`
	Area           float64   `json:"area"`
	MaterialType   string    `json:"material_type"`
	EstimatedPrice float64   `json:"estimated_price"`
	Status         string    `json:"status"`
	QuoteNumber    string    `json:"quote_number"`
	Correlative    *string   `json:"correlative"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Quote) TableName() string { return TableQuotes }

// QuoteItem is one cart line of a quote. Only QuoteID and ProductID are
// required; the rest is independently nullable because the live schema has
// grown column by column. Buyer contact fields are denormalized onto each row.
type QuoteItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	QuoteID         uint      `gorm:"not null;index" json:"quote_id"`
	ProductID       uint      `gorm:"not null" json:"product_id"`
	Name            string    `json:"name"`
	SKU             string    `json:"sku"`
	Price           float64   `json:"price"`
	UpdatePrice     *float64  `json:"update_price"`
	Quantity        float64   `json:"qty"`
	Discount        float64   `json:"discount"`
	Orden           int       `json:"orden"`
	UnitSize        string    `json:"unit_size"`
	MeasurementUnit string    `json:"measurement_unit"`
	Characteristics string    `json:"characteristics"`
	ImageURL        string    `json:"image_url"`
	CustomerCompany string    `json:"customer_company"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	CreatedAt       time.Time `json:"created_at"`
}

func (QuoteItem) TableName() string { return TableQuoteItems }

// QuoteVersion is an immutable snapshot of a quote's computed document.
// Rows are write-once; there is no update or delete path.
type QuoteVersion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	QuoteID     uint      `gorm:"not null;uniqueIndex:idx_quote_version" json:"quote_id"`
	Version     int       `gorm:"not null;uniqueIndex:idx_quote_version" json:"version"`
	Payload     string    `json:"payload"`
	Correlativo string    `json:"correlativo"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (QuoteVersion) TableName() string { return TableQuoteVersions }

// QuoteVersionSummary is the listing projection: everything but the payload,
// which can be large.
type QuoteVersionSummary struct {
	Version     int       `json:"version"`
	Correlativo string    `json:"correlativo"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetQuote fetches a quote by id, mapping the missing row to ErrQuoteNotFound.
func GetQuote(db *gorm.DB, id uint) (*Quote, error) {
	var q Quote
	if err := db.First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &q, nil
}

// GetQuoteItems returns a quote's items in display order. A quote with zero
// items is a valid state ("sin productos"): a crash between the quote insert
// and the item inserts leaves exactly that behind.
func GetQuoteItems(db *gorm.DB, quoteID uint) ([]QuoteItem, error) {
	var items []QuoteItem
	err := db.Where("quote_id = ?", quoteID).Order("orden ASC, id ASC").Find(&items).Error
	return items, err
}

// LatestQuoteVersion resolves "latest" as the row with the maximum version
// for the quote.
func LatestQuoteVersion(db *gorm.DB, quoteID uint) (*QuoteVersion, error) {
	var v QuoteVersion
	err := db.Where("quote_id = ?", quoteID).Order("version DESC").First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteVersionNotFound
		}
		return nil, err
	}
	return &v, nil
}

// GetQuoteVersion fetches one exact version of a quote.
func GetQuoteVersion(db *gorm.DB, quoteID uint, version int) (*QuoteVersion, error) {
	var v QuoteVersion
	err := db.Where("quote_id = ? AND version = ?", quoteID, version).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteVersionNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListQuoteVersions returns version summaries newest-first.
func ListQuoteVersions(db *gorm.DB, quoteID uint) ([]QuoteVersionSummary, error) {
	var out []QuoteVersionSummary
	err := db.Model(&QuoteVersion{}).
		Select("version, correlativo, created_by, created_at").
		Where("quote_id = ?", quoteID).
		Order("version DESC").
		Find(&out).Error
	return out, err
}

// AppendQuoteVersion writes the next version snapshot for a quote. The
// version number is max+1 over existing rows; the unique (quote_id, version)
// index turns a concurrent double-append into a store error instead of a
// silent overwrite.
func AppendQuoteVersion(db *gorm.DB, quoteID uint, payload, correlativo, createdBy string) (*QuoteVersion, error) {
	var maxVersion int
	row := db.Model(&QuoteVersion{}).
		Select("COALESCE(MAX(version), 0)").
		Where("quote_id = ?", quoteID).
		Row()
	if err := row.Scan(&maxVersion); err != nil {
		return nil, err
	}

	v := QuoteVersion{
		QuoteID:     quoteID,
		Version:     maxVersion + 1,
		Payload:     payload,
		Correlativo: correlativo,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}
	if err := db.Create(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}
