package models

import (
	"errors"
	"fmt"
	"strings"
)

// Tenant selects which brand's partitioned tables a request operates against.
// The value comes from the `company` query parameter and must never reach a
// table name without passing through ParseTenant first.
type Tenant string

const (
	TenantFasercon Tenant = "fasercon"
	TenantRym      Tenant = "rym"
	TenantVimal    Tenant = "vimal"
)

var ErrUnknownTenant = errors.New("unknown company")

// AllTenants lists every tenant key accepted by the API.
var AllTenants = []Tenant{TenantFasercon, TenantRym, TenantVimal}

// ParseTenant validates a company discriminator against the closed tenant set.
func ParseTenant(s string) (Tenant, error) {
	switch Tenant(strings.ToLower(strings.TrimSpace(s))) {
	case TenantFasercon:
		return TenantFasercon, nil
	case TenantRym:
		return TenantRym, nil
	case TenantVimal:
		return TenantVimal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTenant, s)
}

// Table maps a tenant plus a resource to its physical table name.
// Safe to interpolate because Tenant values only exist via ParseTenant.
func (t Tenant) Table(resource string) string {
	return string(t) + "_" + resource
}

// Shared (non-partitioned) tables live under the fasercon_ prefix.
const (
	TableQuotes        = "fasercon_quotes"
	TableQuoteItems    = "fasercon_quote_items"
	TableQuoteVersions = "fasercon_quote_versions"
	TableProducts      = "fasercon_products"
)
