package config

import (
	"os"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Tenants holds CLI flags for the tenant registry configuration
type Tenants struct {
	path string
}

// TenantConfig is the TOML form of the tenant registry
type TenantConfig struct {
	Tenants []TenantEntry `toml:"tenant"`
}

// TenantEntry is one registered law office
type TenantEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the TenantEntry is valid
func (t *TenantEntry) Validate() error {
	if t.ID == "" {
		return goerr.New("tenant ID is required", goerr.V("name", t.Name))
	}
	if t.Name == "" {
		return goerr.New("tenant name is required", goerr.V("id", t.ID))
	}
	return nil
}

// Validate checks if the TenantConfig is valid
func (c *TenantConfig) Validate() error {
	if len(c.Tenants) == 0 {
		return goerr.New("at least one tenant must be configured")
	}

	ids := make(map[string]bool)
	for _, tenant := range c.Tenants {
		if err := tenant.Validate(); err != nil {
			return goerr.Wrap(err, "invalid tenant")
		}
		if ids[tenant.ID] {
			return goerr.New("duplicate tenant ID", goerr.V("id", tenant.ID))
		}
		ids[tenant.ID] = true
	}

	return nil
}

// Flags returns CLI flags for tenant configuration
func (t *Tenants) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tenant-config",
			Usage:       "Path to the tenant registry TOML file",
			Required:    true,
			Sources:     cli.EnvVars("TRAMITA_TENANT_CONFIG"),
			Destination: &t.path,
		},
	}
}

// Configure loads the tenant registry from the TOML file
func (t *Tenants) Configure() (*model.TenantRegistry, error) {
	cfg, err := LoadTenantConfig(t.path)
	if err != nil {
		return nil, err
	}

	registry := model.NewTenantRegistry()
	for _, entry := range cfg.Tenants {
		registry.Register(&model.Tenant{
			ID:   entry.ID,
			Name: entry.Name,
		})
	}
	return registry, nil
}

// LoadTenantConfig loads the tenant registry from a TOML file
func LoadTenantConfig(path string) (*TenantConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read tenant config file", goerr.V("path", path))
	}

	var cfg TenantConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML tenant config", goerr.V("path", path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "tenant config validation failed", goerr.V("path", path))
	}

	return &cfg, nil
}
