package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	LockPessimistic = "pessimistic"
	LockOptimistic  = "optimistic"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver         string
	URL            string
	Host           string
	User           string
	Password       string
	Name           string
	Port           string
	SSLMode        string
	TimeZone       string
	MaxIdleConns   int
	MaxOpenConns   int
	ConnectRetries int
	LogLevel       string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type LedgerConfig struct {
	LockStrategy    string
	ConflictRetries int
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

type Config struct {
	AppName  string
	Env      string
	Port     string
	LogLevel string
	Database DatabaseConfig
	JWT      JWTConfig
	Ledger   LedgerConfig
	Seed     SeedConfig
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:  getStringEnv("APP_NAME", "Inventory Ledger"),
		Env:      getStringEnv("APP_ENV", EnvDevelopment),
		Port:     getStringEnv("PORT", "3000"),
		LogLevel: getStringEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getStringEnv("DB_DRIVER", DriverPostgres)),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getStringEnv("DB_HOST", "localhost"),
			User:     getStringEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getStringEnv("DB_NAME", "inventory"),
			Port:     getStringEnv("DB_PORT", "5432"),
			SSLMode:  getStringEnv("DB_SSLMODE", "disable"),
			TimeZone: getStringEnv("DB_TIMEZONE", "UTC"),
			LogLevel: getStringEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getStringEnv("JWT_ISSUER", "go-inventory-ledger"),
		},
		Ledger: LedgerConfig{
			LockStrategy: strings.ToLower(getStringEnv("LEDGER_LOCK_STRATEGY", LockPessimistic)),
		},
		Seed: SeedConfig{
			AdminEmail:    getStringEnv("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getStringEnv("ADMIN_PASSWORD", "admin123"),
		},
	}

	var err error
	if cfg.Database.MaxIdleConns, err = getIntEnv("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpenConns, err = getIntEnv("DB_MAX_OPEN_CONNS", 100); err != nil {
		return nil, err
	}
	if cfg.Database.ConnectRetries, err = getIntEnv("DB_CONNECT_RETRIES", 5); err != nil {
		return nil, err
	}
	ttlHours, err := getIntEnv("JWT_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.JWT.TTL = time.Duration(ttlHours) * time.Hour
	if cfg.Ledger.ConflictRetries, err = getIntEnv("LEDGER_CONFLICT_RETRIES", 3); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Database.Driver == DriverSQLite && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for the sqlite driver")
	}
	switch c.Ledger.LockStrategy {
	case LockPessimistic, LockOptimistic:
	default:
		return fmt.Errorf("LEDGER_LOCK_STRATEGY must be %q or %q, got %q", LockPessimistic, LockOptimistic, c.Ledger.LockStrategy)
	}
	if c.Ledger.ConflictRetries < 0 {
		return fmt.Errorf("LEDGER_CONFLICT_RETRIES must not be negative")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	return nil
}

func getStringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
