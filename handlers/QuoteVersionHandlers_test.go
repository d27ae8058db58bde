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

func versionRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.POST("/api/quotes/:id/versions", CreateQuoteVersion(db))
	r.GET("/api/quotes/:id/versions", ListQuoteVersions(db))
	r.GET("/api/quotes/:id/versions/:version", GetQuoteVersion(db))
	return r
}

func postVersion(t *testing.T, r *gin.Engine, quoteID uint, payload string) models.QuoteVersion {
	t.Helper()
	body := fmt.Sprintf(`{"payload":%q,"correlativo":"0009","created_by":"ventas@fasercon.cl"}`, payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/quotes/%d/versions", quoteID),
		bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var v models.QuoteVersion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestQuoteVersionsNumberFromOne(t *testing.T) {
	db := setupTestDB(t)
	q := seedQuote(t, db, models.Quote{CreatedAt: time.Now()})
	r := versionRouter(db)

	v1 := postVersion(t, r, q.ID, `{"total":100}`)
	v2 := postVersion(t, r, q.ID, `{"total":200}`)
	v3 := postVersion(t, r, q.ID, `{"total":300}`)

	assert.Equal(t, 1, v1.Version)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, 3, v3.Version)
}

func TestGetQuoteVersionLatestAndExact(t *testing.T) {
	db := setupTestDB(t)
	q := seedQuote(t, db, models.Quote{CreatedAt: time.Now()})
	r := versionRouter(db)

	postVersion(t, r, q.ID, `{"total":100}`)
	postVersion(t, r, q.ID, `{"total":200}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/quotes/%d/versions/latest", q.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var latest models.QuoteVersion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, `{"total":200}`, latest.Payload)

	// The payload of an older version is returned byte for byte.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/quotes/%d/versions/1", q.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var first models.QuoteVersion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, `{"total":100}`, first.Payload)
}

func TestGetQuoteVersionNotFound(t *testing.T) {
	db := setupTestDB(t)
	q := seedQuote(t, db, models.Quote{CreatedAt: time.Now()})
	r := versionRouter(db)

	// No versions yet: 404, not 500.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/quotes/%d/versions/latest", q.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	postVersion(t, r, q.ID, `{}`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/quotes/%d/versions/7", q.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Bad selectors are 400.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/quotes/%d/versions/zero", q.ID), nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateQuoteVersionUnknownQuote(t *testing.T) {
	db := setupTestDB(t)
	r := versionRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quotes/99999/versions",
		bytes.NewBufferString(`{"payload":"{}"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListQuoteVersionsOmitsPayload(t *testing.T) {
	db := setupTestDB(t)
	q := seedQuote(t, db, models.Quote{CreatedAt: time.Now()})
	r := versionRouter(db)

	postVersion(t, r, q.ID, `{"total":100}`)
	postVersion(t, r, q.ID, `{"total":200}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/quotes/%d/versions", q.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		QuoteID  int                          `json:"quote_id"`
		Versions []models.QuoteVersionSummary `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Versions, 2)
	// Newest first.
	assert.Equal(t, 2, resp.Versions[0].Version)
	assert.Equal(t, "0009", resp.Versions[0].Correlativo)
	assert.NotContains(t, w.Body.String(), "total")
}
