package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// migrateTenantTable creates a {tenant}_{resource} table for a model.
func migrateTenantTable(t *testing.T, db *gorm.DB, tenant models.Tenant, resource string, model interface{}) {
	t.Helper()
	require.NoError(t, db.Table(tenant.Table(resource)).AutoMigrate(model))
}

func clientRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.GET("/api/clients", GetClients(db))
	r.POST("/api/clients", CreateClient(db))
	r.PUT("/api/clients/:id", UpdateClient(db))
	r.DELETE("/api/clients/:id", DeleteClient(db))
	return r
}

func TestClientEndpointsRejectUnknownTenant(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(db)

	for _, q := range []string{"", "company=acme", "company=fasercon_users;drop"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestClientCRUDPerTenant(t *testing.T) {
	db := setupTestDB(t)
	migrateTenantTable(t, db, models.TenantFasercon, "clients", &models.Client{})
	migrateTenantTable(t, db, models.TenantRym, "clients", &models.Client{})
	r := clientRouter(db)

	body := `{"organization":"Inmobiliaria Norte","contact_name":"P. Soto","email":"psoto@norte.cl","phone":"+56911111111","rut":"77.888.999-0","city":"Antofagasta"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/clients?company=fasercon", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	// The row landed in fasercon_clients only.
	var list []models.Client
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients?company=fasercon", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Inmobiliaria Norte", list[0].Organization)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients?company=rym", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)

	// Case-insensitive tenant key resolves to the same table.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients?company=FASERCON", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	update := `{"organization":"Inmobiliaria Norte SpA","contact_name":"P. Soto","email":"psoto@norte.cl","phone":"+56911111111","rut":"77.888.999-0","city":"Antofagasta"}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/clients/%d?company=fasercon", created.ID),
		bytes.NewBufferString(update))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Client
	require.NoError(t, db.Table("fasercon_clients").First(&stored, created.ID).Error)
	assert.Equal(t, "Inmobiliaria Norte SpA", stored.Organization)

	// Updating through the wrong tenant misses.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/clients/%d?company=rym", created.ID),
		bytes.NewBufferString(update))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/clients/%d?company=fasercon", created.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Table("fasercon_clients").Count(&count).Error)
	assert.Zero(t, count)
}
