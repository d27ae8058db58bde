package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTenant(t *testing.T) {
	for _, in := range []string{"fasercon", "FASERCON", " Fasercon ", "rym", "vimal"} {
		tenant, err := ParseTenant(in)
		require.NoError(t, err, in)
		assert.NotEmpty(t, tenant)
	}

	for _, in := range []string{"", "acme", "fasercon_users", "fasercon; DROP TABLE x", "fasercon'"} {
		_, err := ParseTenant(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrUnknownTenant)
	}
}

func TestTenantTableNames(t *testing.T) {
	assert.Equal(t, "fasercon_clients", TenantFasercon.Table("clients"))
	assert.Equal(t, "rym_users", TenantRym.Table("users"))
	assert.Equal(t, "vimal_contact_forms", TenantVimal.Table("contact_forms"))
}
