package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func submitRouter(db *gorm.DB, mailer *stubMailer) *gin.Engine {
	r := gin.New()
	r.POST("/api/quotes", SubmitQuote(db, mailer))
	return r
}

func submissionBody(productID uint, qty float64) []byte {
	body := map[string]interface{}{
		"contact": map[string]string{
			"company": "Constructora Andes",
			"email":   "obras@andes.cl",
			"phone":   "+56912345678",
			"rut":     "76.123.456-7",
		},
		"items": []map[string]interface{}{
			{"product_id": productID, "qty": qty, "name": "stale name", "price": 1.0},
		},
	}
	b, _ := json.Marshal(body)
	return b
}

func TestSubmitQuotePersistsQuoteAndItems(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, models.Product{
		Name: "Plancha Zinc 0.35", SKU: "ZN-035", Price: 8990,
		UnitSize: "3.0", MeasurementUnit: "m", Visible: true,
	})

	mailer := &stubMailer{}
	r := submitRouter(db, mailer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", bytes.NewReader(submissionBody(p.ID, 12)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.QuoteSubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ItemsSaved)
	assert.Equal(t, "0001", resp.Correlative)
	assert.True(t, resp.EmailSuccess)
	assert.Contains(t, resp.QuoteNumber, "FC-")

	var quote models.Quote
	require.NoError(t, db.First(&quote, resp.QuoteID).Error)
	assert.Equal(t, models.QuoteStatusPending, quote.Status)
	assert.Equal(t, "Constructora Andes", quote.CustomerName)
	require.NotNil(t, quote.Correlative)
	assert.Equal(t, "0001", *quote.Correlative)

	items, err := models.GetQuoteItems(db, resp.QuoteID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ProductID)
	assert.Equal(t, float64(12), items[0].Quantity)
	assert.Equal(t, "obras@andes.cl", items[0].CustomerEmail)

	// The customer mail carried the PDF and the catalog-enriched data.
	assert.Equal(t, 1, mailer.quoteCalls)
	assert.Equal(t, 1, mailer.internalCalls)
	assert.True(t, bytes.HasPrefix(mailer.lastPDF, []byte("%PDF")))
	assert.Equal(t, resp.QuoteNumber, mailer.lastData.QuoteNumber)
}

func TestSubmitQuoteSequentialCorrelatives(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, models.Product{Name: "Costanera", Price: 4500, Visible: true})

	r := submitRouter(db, &stubMailer{})

	var previous string
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/quotes", bytes.NewReader(submissionBody(p.ID, 1)))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp models.QuoteSubmissionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, fmt.Sprintf("%04d", i+1), resp.Correlative)
		assert.NotEqual(t, previous, resp.Correlative)
		previous = resp.Correlative
	}
}

func TestSubmitQuoteEmailFailureIsNonFatal(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, models.Product{Name: "Cumbrera", Price: 3200, Visible: true})

	mailer := &stubMailer{failCustomer: true, failInternal: true}
	r := submitRouter(db, mailer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", bytes.NewReader(submissionBody(p.ID, 2)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.QuoteSubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.EmailSuccess)
	assert.Equal(t, 1, resp.ItemsSaved)

	// Quote and items survived the failed send.
	var count int64
	require.NoError(t, db.Model(&models.Quote{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitQuoteValidation(t *testing.T) {
	db := setupTestDB(t)
	r := submitRouter(db, &stubMailer{})

	cases := []struct {
		name string
		body string
	}{
		{"empty items", `{"contact":{"company":"X","email":"x@x.cl","phone":"1234567"},"items":[]}`},
		{"missing email", `{"contact":{"company":"X","phone":"1234567"},"items":[{"product_id":1,"qty":1}]}`},
		{"bad email", `{"contact":{"company":"X","email":"nope","phone":"1234567"},"items":[{"product_id":1,"qty":1}]}`},
		{"zero qty", `{"contact":{"company":"X","email":"x@x.cl","phone":"1234567"},"items":[{"product_id":1,"qty":0}]}`},
		{"missing product", `{"contact":{"company":"X","email":"x@x.cl","phone":"1234567"},"items":[{"qty":1}]}`},
		{"short phone", `{"contact":{"company":"X","email":"x@x.cl","phone":"123"},"items":[{"product_id":1,"qty":1}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/quotes", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Quote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitQuoteWithoutElevatedConnection(t *testing.T) {
	r := submitRouter(nil, &stubMailer{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", bytes.NewReader(submissionBody(1, 1)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetAllQuotesPagination(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < 25; i++ {
		seedQuote(t, db, models.Quote{
			CustomerName: fmt.Sprintf("Cliente %02d", i),
			CreatedAt:    time.Now().Add(time.Duration(i) * time.Minute),
		})
	}

	r := gin.New()
	r.GET("/api/quotes", GetAllQuotes(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotes?page=2&page_size=10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data       []models.Quote    `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 10)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.Equal(t, 25, resp.Pagination.TotalRecords)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
	// Newest first.
	assert.Equal(t, "Cliente 14", resp.Data[0].CustomerName)
}

func TestUpdateQuoteStatus(t *testing.T) {
	db := setupTestDB(t)
	q := seedQuote(t, db, models.Quote{Status: models.QuoteStatusPending, CreatedAt: time.Now()})

	r := gin.New()
	r.PATCH("/api/quotes/:id", UpdateQuote(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/quotes/%d", q.ID),
		bytes.NewBufferString(`{"status":"SENT"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Quote
	require.NoError(t, db.First(&updated, q.ID).Error)
	assert.Equal(t, models.QuoteStatusSent, updated.Status)

	// Unknown statuses are rejected before touching the row.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/quotes/%d", q.ID),
		bytes.NewBufferString(`{"status":"DELETED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-editable fields alone are a 400.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/quotes/%d", q.ID),
		bytes.NewBufferString(`{"quote_number":"FC-X"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing quote is a 404.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/quotes/99999",
		bytes.NewBufferString(`{"status":"SENT"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetQuoteByIDWithItems(t *testing.T) {
	db := setupTestDB(t)
	q := seedQuote(t, db, models.Quote{CustomerName: "Techos Sur", CreatedAt: time.Now()})
	require.NoError(t, db.Create(&models.QuoteItem{QuoteID: q.ID, ProductID: 1, Name: "Zinc", Orden: 1}).Error)

	r := gin.New()
	r.GET("/api/quotes/:id", GetQuoteByID(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/quotes/%d", q.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Quote models.Quote       `json:"quote"`
		Items []models.QuoteItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Techos Sur", resp.Quote.CustomerName)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Zinc", resp.Items[0].Name)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotes/99999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
