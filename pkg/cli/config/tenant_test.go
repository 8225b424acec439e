package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/litigio/tramita/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func writeTenantConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tenants.toml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadTenantConfig(t *testing.T) {
	path := writeTenantConfig(t, `
[[tenant]]
id = "escritorio-a"
name = "Escritório A"

[[tenant]]
id = "escritorio-b"
name = "Escritório B"
`)

	cfg, err := config.LoadTenantConfig(path)
	gt.NoError(t, err).Required()
	gt.Array(t, cfg.Tenants).Length(2)
	gt.Value(t, cfg.Tenants[0].ID).Equal("escritorio-a")
	gt.Value(t, cfg.Tenants[0].Name).Equal("Escritório A")
}

func TestLoadTenantConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadTenantConfig(filepath.Join(t.TempDir(), "missing.toml"))
		gt.Error(t, err)
	})

	t.Run("empty registry", func(t *testing.T) {
		path := writeTenantConfig(t, "")
		_, err := config.LoadTenantConfig(path)
		gt.Error(t, err)
	})

	t.Run("duplicate tenant ID", func(t *testing.T) {
		path := writeTenantConfig(t, `
[[tenant]]
id = "escritorio-a"
name = "Escritório A"

[[tenant]]
id = "escritorio-a"
name = "Escritório A (cópia)"
`)
		_, err := config.LoadTenantConfig(path)
		gt.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		path := writeTenantConfig(t, `
[[tenant]]
id = "escritorio-a"
`)
		_, err := config.LoadTenantConfig(path)
		gt.Error(t, err)
	})
}
