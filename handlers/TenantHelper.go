package handlers

import (
	"net/http"

	"backend/models"

	"github.com/gin-gonic/gin"
)

// requireTenant validates the company query parameter against the tenant
// allow-list before anything touches a table name. Unknown values get a 400
// and the handler must bail out.
func requireTenant(c *gin.Context) (models.Tenant, bool) {
	tenant, err := models.ParseTenant(c.Query("company"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company", "details": err.Error()})
		return "", false
	}
	return tenant, true
}
