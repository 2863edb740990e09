package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SESSION_DRIVER", "")
	t.Setenv("BADGE_SCAN_TIMEOUT_SECONDS", "")
	t.Setenv("AUTH_HASH_PINS", "")
	t.Setenv("SEED_ADMIN_PIN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, DriverMemory, cfg.Session.Driver)
	assert.Equal(t, 15*time.Second, cfg.Badge.ScanTimeout())
	assert.False(t, cfg.Auth.HashPINs)
	assert.Equal(t, "1234", cfg.Auth.SeedAdminPIN)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverSQLite)
	t.Setenv("SESSION_DRIVER", DriverStore)
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("AUTH_HASH_PINS", "true")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, DriverStore, cfg.Session.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL())
	assert.True(t, cfg.Auth.HashPINs)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "localstorage")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", DriverMemory)
	t.Setenv("SESSION_DRIVER", DriverSQLite)
	_, err = Load()
	require.Error(t, err)
}
