package handlers

import (
	"fmt"
	"testing"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB opens an in-memory sqlite database named after the test so
// parallel tests never share state, and migrates the shared quote tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Quote{},
		&models.QuoteItem{},
		&models.QuoteVersion{},
		&models.Product{},
	))

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, p models.Product) models.Product {
	t.Helper()
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedQuote(t *testing.T, db *gorm.DB, q models.Quote) models.Quote {
	t.Helper()
	require.NoError(t, db.Create(&q).Error)
	return q
}

// stubMailer records outbound mail instead of talking to SMTP.
type stubMailer struct {
	quoteCalls    int
	internalCalls int
	failCustomer  bool
	failInternal  bool
	lastData      models.EmailData
	lastPDF       []byte
}

func (m *stubMailer) SendQuotePDF(data models.EmailData, pdf []byte) error {
	m.quoteCalls++
	m.lastData = data
	m.lastPDF = pdf
	if m.failCustomer {
		return fmt.Errorf("smtp unavailable")
	}
	return nil
}

func (m *stubMailer) SendInternalCopy(data models.EmailData, pdf []byte) error {
	m.internalCalls++
	if m.failInternal {
		return fmt.Errorf("smtp unavailable")
	}
	return nil
}
