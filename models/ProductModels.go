package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry. Characteristics and ImageURL are stored as raw
// text because older dashboard versions wrote plain strings, newer ones write
// JSON arrays; readers must go through the Parse helpers.
type Product struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	SKU             string    `json:"sku"`
	Price           float64   `json:"price"`
	UnitSize        string    `json:"unit_size"`
	MeasurementUnit string    `json:"measurement_unit"`
	Characteristics string    `json:"characteristics"`
	ImageURL        string    `json:"image_url"`
	Visible         bool      `gorm:"default:true" json:"visible"`
	Orden           int       `json:"orden"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Product) TableName() string { return TableProducts }

// parseStringList handles the three shapes the dashboard has historically
// written: a JSON array, a JSON-encoded string, or a plain string.
func parseStringList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		out := list[:0]
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			return []string{single}
		}
		return nil
	}

	return []string{raw}
}

// CharacteristicsList returns the characteristics regardless of how the row
// was written.
func (p *Product) CharacteristicsList() []string {
	return parseStringList(p.Characteristics)
}

// Images normalizes the image column (single URL, JSON array, or absent) to a
// slice.
func (p *Product) Images() []string {
	return parseStringList(p.ImageURL)
}

// FirstImage returns the primary image URL, or "" when the product has none.
func (p *Product) FirstImage() string {
	imgs := p.Images()
	if len(imgs) == 0 {
		return ""
	}
	return imgs[0]
}

// GetProduct fetches one product by id.
func GetProduct(db *gorm.DB, id uint) (*Product, error) {
	var p Product
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ProductsByIDs loads catalog rows for the given ids, keyed by id. Missing
// ids are simply absent from the map.
func ProductsByIDs(db *gorm.DB, ids []uint) (map[uint]Product, error) {
	out := make(map[uint]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Product
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// VisibleProducts returns the public catalog in display order.
func VisibleProducts(db *gorm.DB) ([]Product, error) {
	var rows []Product
	err := db.Where("visible = ?", true).Order("orden ASC, id ASC").Find(&rows).Error
	return rows, err
}
