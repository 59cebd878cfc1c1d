package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	GRPC     GRPCConfig
	Auth     AuthConfig
	Log      LogConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// HTTPConfig contains the JSON API listener settings.
type HTTPConfig struct {
	Address     string   // listen address (e.g., ":3000")
	CORSOrigins []string // allowed origins; "*" allows any
}

// GRPCConfig contains the health-check listener settings.
type GRPCConfig struct {
	Address string // empty disables the gRPC health server
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret  string        // JWT signing secret
	TokenTTL   time.Duration // lifetime of issued tokens
	BcryptCost int           // work factor for password and answer hashes
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json | logfmt
}

const devSecret = "dev-secret-change-me"

// Default returns the built-in configuration. JWTSecret is left empty.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "app.db"},
		HTTP:     HTTPConfig{Address: ":3000", CORSOrigins: []string{"*"}},
		GRPC:     GRPCConfig{Address: ":50051"},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour, BcryptCost: 10},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration from defaults, the optional config file at path
// (YAML or TOML), and environment variables, in increasing precedence.
// JWT_SECRET (or auth.jwt_secret) is required.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a fixed JWT secret when none is configured.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = devSecret
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fc, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := fc.apply(cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.HTTP.Address = getEnv("HTTP_ADDRESS", cfg.HTTP.Address)
	cfg.GRPC.Address = getEnv("GRPC_ADDRESS", cfg.GRPC.Address)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	cost, err := getEnvInt("BCRYPT_COST", cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	cfg.Auth.BcryptCost = cost

	ttl, err := getEnvDuration("TOKEN_TTL", cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.Auth.TokenTTL = ttl
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// getEnvDuration retrieves an environment variable as a time.Duration with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, TokenTTL: %s, Log: %s/%s, Auth: *** (masked) ***}",
		c.Database.Path, c.HTTP.Address, c.GRPC.Address, c.Auth.TokenTTL, c.Log.Level, c.Log.Format)
}
