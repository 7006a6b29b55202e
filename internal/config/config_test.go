package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/services"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DCA_DB_DRIVER", "sqlite")
	t.Setenv("DCA_FIT_WORKERS", "3")
	t.Setenv("DCA_POLICY_FILE", "policy.yaml")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 3, c.Fit.Workers)
	assert.Equal(t, 5000, c.Fit.MaxIterations)
	assert.Equal(t, "0 0 2 * * *", c.Worker.Schedule)
	assert.Equal(t, "policy.yaml", c.PolicyFile)
	assert.Equal(t, 24*time.Hour, c.Admin.TokenTTL)
	assert.False(t, c.LLMEnabled())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DCA_DB_DRIVER", "postgres")
	_, err := Load()
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{DB: DBConfig{User: "u", Password: "p", Host: "db", Port: "3307", Name: "prod"}}
	assert.Equal(t, "u:p@tcp(db:3307)/prod?charset=utf8mb4&loc=UTC", c.MySQLDSN())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadPolicyOverridesDefaults(t *testing.T) {
	p, err := LoadPolicy(writeFile(t, `
b: 0.9
oil:
  trim_ratio: 0.4
  trim_min_points: 12
  qi_low_factor: 0.7
  qi_high_factor: 1.5
  di_min: 0.002
  di_max: 50
`))
	require.NoError(t, err)
	assert.Equal(t, 0.9, p.B)
	assert.Equal(t, 0.4, p.Oil.TrimRatio)
	assert.Equal(t, 50.0, p.Oil.DiMax)
	// bagian yang tidak disebut tetap default
	assert.Equal(t, services.DefaultPolicy().Water, p.Water)
	assert.Equal(t, 6, p.GOR.Window)
}

func TestLoadPolicyEmptyPath(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, services.DefaultPolicy(), p)
}

func TestLoadPolicyInvalid(t *testing.T) {
	_, err := LoadPolicy(writeFile(t, "b: -1\n"))
	require.Error(t, err)

	_, err = LoadPolicy(writeFile(t, "unknown_key: 1\n"))
	require.Error(t, err)

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
