package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNextCorrelativeEmptyTable(t *testing.T) {
	db := setupTestDB(t)

	current, next, err := NextCorrelative(db)
	require.NoError(t, err)
	assert.Equal(t, "0000", current)
	assert.Equal(t, "0001", next)
}

func TestNextCorrelativeMaxPlusOne(t *testing.T) {
	db := setupTestDB(t)

	for _, c := range []string{"0003", "0007", "0005"} {
		seedQuote(t, db, models.Quote{
			QuoteNumber: "FC-20260101-" + c,
			Correlative: strPtr(c),
			CreatedAt:   time.Now(),
		})
	}

	current, next, err := NextCorrelative(db)
	require.NoError(t, err)
	assert.Equal(t, "0007", current)
	assert.Equal(t, "0008", next)
}

func TestNextCorrelativeEmbeddedDigits(t *testing.T) {
	db := setupTestDB(t)

	// Older rows carried prefixed correlatives; the first embedded 4-digit
	// group still counts.
	seedQuote(t, db, models.Quote{Correlative: strPtr("FC-0012"), CreatedAt: time.Now()})
	seedQuote(t, db, models.Quote{Correlative: strPtr("0004"), CreatedAt: time.Now()})
	// Unparseable values are skipped, not fatal.
	seedQuote(t, db, models.Quote{Correlative: strPtr("n/a"), CreatedAt: time.Now()})
	// Null correlatives never participate.
	seedQuote(t, db, models.Quote{CreatedAt: time.Now()})

	current, next, err := NextCorrelative(db)
	require.NoError(t, err)
	assert.Equal(t, "0012", current)
	assert.Equal(t, "0013", next)
}

func TestNextCorrelativeHandlerBothRoutes(t *testing.T) {
	db := setupTestDB(t)
	seedQuote(t, db, models.Quote{Correlative: strPtr("0041"), CreatedAt: time.Now()})

	r := gin.New()
	r.GET("/api/correlative/next", NextCorrelativeHandler(db))
	r.GET("/api/quotes/next-correlative", NextCorrelativeHandler(db))

	for _, path := range []string{"/api/correlative/next", "/api/quotes/next-correlative"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, path)

		var resp models.CorrelativeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "0041", resp.Current)
		assert.Equal(t, "0042", resp.Next)
		assert.Empty(t, resp.Error)
	}
}

func TestNextCorrelativeHandlerScanFailureStays200(t *testing.T) {
	db := setupTestDB(t)
	// Dropping the table forces the scan to fail; the endpoint must still
	// answer 200 with the fallback pair and the error in the body.
	require.NoError(t, db.Migrator().DropTable(models.TableQuotes))

	r := gin.New()
	r.GET("/api/correlative/next", NextCorrelativeHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/correlative/next", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CorrelativeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0000", resp.Current)
	assert.Equal(t, "0001", resp.Next)
	assert.NotEmpty(t, resp.Error)
}
