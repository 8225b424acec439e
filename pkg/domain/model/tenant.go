package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// Tenant represents a tenant's identity. The display name is the root
// of every storage path derived for the tenant's files.
type Tenant struct {
	ID   string
	Name string
}

// ErrTenantNotFound is returned when a tenant is not found in the registry
var ErrTenantNotFound = goerr.New("tenant not found")

// TenantRegistry holds tenant configurations. It holds settings only,
// never repository or use case instances.
type TenantRegistry struct {
	entries map[string]*Tenant
	order   []string // preserves registration order
}

// NewTenantRegistry creates a new empty TenantRegistry
func NewTenantRegistry() *TenantRegistry {
	return &TenantRegistry{
		entries: make(map[string]*Tenant),
	}
}

// Register adds a tenant to the registry
func (r *TenantRegistry) Register(tenant *Tenant) {
	if _, exists := r.entries[tenant.ID]; !exists {
		r.order = append(r.order, tenant.ID)
	}
	r.entries[tenant.ID] = tenant
}

// Get retrieves a tenant by ID
func (r *TenantRegistry) Get(tenantID string) (*Tenant, error) {
	tenant, ok := r.entries[tenantID]
	if !ok {
		return nil, goerr.Wrap(ErrTenantNotFound, "tenant not found",
			goerr.V("tenant_id", tenantID))
	}
	return tenant, nil
}

// Tenants returns all registered tenants in registration order
func (r *TenantRegistry) Tenants() []Tenant {
	result := make([]Tenant, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.entries[id])
	}
	return result
}
