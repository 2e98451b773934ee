package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"planets-procgen/internal/shared/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// TestLoadDefaults checks the values used when only the secret is set.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "migrations", cfg.Database.MigrationsPath)
	require.Equal(t, int64(64), cfg.Procgen.MaxScanSize)
	require.Equal(t, time.Hour, cfg.Procgen.CacheTTL)
	require.Zero(t, cfg.Procgen.Workers)
	require.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=planets sslmode=disable", cfg.ConnectionString())
}

// TestLoadProcgenOverrides reads the procgen section from the environment.
func TestLoadProcgenOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PROCGEN_REMOTE_URL", "https://params.example/bundle")
	t.Setenv("PROCGEN_CLIENT_ID", "planets")
	t.Setenv("PROCGEN_TOKEN_URL", "https://auth.example/token")
	t.Setenv("PROCGEN_WORKERS", "4")
	t.Setenv("PROCGEN_CACHE_TTL_MINUTES", "5")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://params.example/bundle", cfg.Procgen.RemoteURL)
	require.Equal(t, 4, cfg.Procgen.Workers)
	require.Equal(t, 5*time.Minute, cfg.Procgen.CacheTTL)
}

// TestLoadRejects covers the validation rules.
func TestLoadRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {"JWT_SECRET": ""},
		"short secret":   {"JWT_SECRET": "short"},
		"negative workers": {
			"JWT_SECRET":      testSecret,
			"PROCGEN_WORKERS": "-1",
		},
		"zero scan size": {
			"JWT_SECRET":            testSecret,
			"PROCGEN_MAX_SCAN_SIZE": "0",
		},
		"path and remote": {
			"JWT_SECRET":                testSecret,
			"PROCGEN_INITIALIZERS_PATH": "bundle.yaml",
			"PROCGEN_REMOTE_URL":        "https://params.example/bundle",
		},
		"client without token url": {
			"JWT_SECRET":        testSecret,
			"PROCGEN_CLIENT_ID": "planets",
		},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			require.Error(t, err)
		})
	}
}
