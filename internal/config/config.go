package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// RedisConfig holds the session store connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// UpstreamConfig holds the base URLs of the external collaborators
type UpstreamConfig struct {
	AuthURL         string
	DirectoryURL    string
	ConsultationURL string
	InventoryURL    string
	SymptomsURL     string
	Timeout         time.Duration
}

// SecurityConfig holds the key used to encrypt cached profile data at rest
type SecurityConfig struct {
	ProfileKey string // 32 bytes for AES-256
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Upstream defaults
	v.SetDefault("upstream.timeout", 10*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Redis
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// Upstream collaborators
	v.BindEnv("upstream.authurl", "AUTH_SERVICE_URL")
	v.BindEnv("upstream.directoryurl", "DIRECTORY_SERVICE_URL")
	v.BindEnv("upstream.consultationurl", "CONSULTATION_SERVICE_URL")
	v.BindEnv("upstream.inventoryurl", "INVENTORY_SERVICE_URL")
	v.BindEnv("upstream.symptomsurl", "SYMPTOMS_SERVICE_URL")
	v.BindEnv("upstream.timeout", "UPSTREAM_TIMEOUT")

	// Security
	v.BindEnv("security.profilekey", "PROFILE_ENCRYPTION_KEY")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate required fields
	if c.Upstream.AuthURL == "" {
		return fmt.Errorf("upstream.authurl is required")
	}

	if c.Upstream.DirectoryURL == "" {
		return fmt.Errorf("upstream.directoryurl is required")
	}

	if c.Upstream.ConsultationURL == "" {
		return fmt.Errorf("upstream.consultationurl is required")
	}

	if c.Upstream.InventoryURL == "" {
		return fmt.Errorf("upstream.inventoryurl is required")
	}

	if c.Upstream.SymptomsURL == "" {
		return fmt.Errorf("upstream.symptomsurl is required")
	}

	if len(c.Security.ProfileKey) != 32 {
		return fmt.Errorf("security.profilekey must be exactly 32 bytes, got %d", len(c.Security.ProfileKey))
	}

	return nil
}
