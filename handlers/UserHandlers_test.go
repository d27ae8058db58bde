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

func userRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.GET("/api/users", GetUsers(db))
	r.POST("/api/users", CreateUser(db))
	r.PUT("/api/users/:id", UpdateUser(db))
	r.DELETE("/api/users/:id", DeleteUser(db))
	return r
}

func TestCreateUserHashesPassword(t *testing.T) {
	db := setupTestDB(t)
	migrateTenantTable(t, db, models.TenantFasercon, "users", &models.User{})
	r := userRouter(db)

	body := `{"email":"nuevo@fasercon.cl","password":"longenough1","first_name":"Nuevo","role":"admin","screens":["quotes","clients"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users?company=fasercon", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "longenough1")
	assert.NotContains(t, w.Body.String(), "$2a$")

	var stored models.User
	require.NoError(t, db.Table("fasercon_users").Where("email = ?", "nuevo@fasercon.cl").First(&stored).Error)
	assert.NotEqual(t, "longenough1", stored.Password)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.Equal(t, []string{"quotes", "clients"}, stored.ScreenList())

	// Duplicate email is a conflict.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/users?company=fasercon", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	db := setupTestDB(t)
	migrateTenantTable(t, db, models.TenantFasercon, "users", &models.User{})
	r := userRouter(db)

	cases := []string{
		`{"email":"a@b.cl","password":"short"}`,
		`{"email":"not-an-email","password":"longenough1"}`,
		`{"email":"a@b.cl","password":"longenough1","role":"superadmin"}`,
	}
	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/users?company=fasercon", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestUpdateUserSuspendAndRole(t *testing.T) {
	db := setupTestDB(t)
	migrateTenantTable(t, db, models.TenantFasercon, "users", &models.User{})
	u := seedStaffUser(t, db, "staff@fasercon.cl", "longenough1")
	r := userRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/users/%d?company=fasercon", u.ID),
		bytes.NewBufferString(`{"suspended":true,"role":"dev"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, db.Table("fasercon_users").First(&stored, u.ID).Error)
	assert.True(t, stored.Suspended)
	assert.Equal(t, models.RoleDev, stored.Role)

	// Listing never exposes hashes.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users?company=fasercon", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	_, hasPassword := out[0]["password"]
	assert.False(t, hasPassword)
}
