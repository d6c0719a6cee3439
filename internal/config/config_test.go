package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LEDGER_LOCK_STRATEGY", "")
	t.Setenv("LEDGER_CONFLICT_RETRIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, LockPessimistic, cfg.Ledger.LockStrategy)
	assert.Equal(t, 3, cfg.Ledger.ConflictRetries)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file:inventory.db")
	t.Setenv("LEDGER_LOCK_STRATEGY", "optimistic")
	t.Setenv("LEDGER_CONFLICT_RETRIES", "0")
	t.Setenv("JWT_TTL_HOURS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, LockOptimistic, cfg.Ledger.LockStrategy)
	assert.Equal(t, 0, cfg.Ledger.ConflictRetries)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":         {"DB_DRIVER": "oracle"},
		"sqlite without url":     {"DB_DRIVER": "sqlite", "DATABASE_URL": ""},
		"unknown lock strategy":  {"LEDGER_LOCK_STRATEGY": "none"},
		"non numeric retries":    {"LEDGER_CONFLICT_RETRIES": "many"},
		"production w/o secret":  {"APP_ENV": "production", "JWT_SECRET": ""},
		"non positive token ttl": {"JWT_TTL_HOURS": "0"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
