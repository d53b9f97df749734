package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/resetgate/resetgate/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App        AppSettings        `yaml:"app"`
	Server     ServerSettings     `yaml:"server"`
	Store      StoreSettings      `yaml:"store"`
	Credential CredentialSettings `yaml:"credential"`
	JWT        JWTSettings        `yaml:"jwt"`
	Logging    LoggingSettings    `yaml:"logging"`
	CORS       CORSSettings       `yaml:"cors"`
	RateLimit  RateLimitSettings  `yaml:"rate_limit"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// StoreSettings selects and configures the reset session store backend.
type StoreSettings struct {
	Backend    string           `yaml:"backend" env:"STORE_BACKEND"`
	SessionTTL time.Duration    `yaml:"session_ttl" env:"STORE_SESSION_TTL"`
	Redis      RedisSettings    `yaml:"redis"`
	Database   DatabaseSettings `yaml:"database"`
}

// RedisSettings contains Redis connection settings for the redis store backend.
type RedisSettings struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

// DatabaseSettings contains database connection settings for the sql store backend.
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// CredentialSettings configures the external credential service that performs
// the actual password change.
type CredentialSettings struct {
	BaseURL string        `yaml:"base_url" env:"CREDENTIAL_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"CREDENTIAL_TIMEOUT"`
}

// JWTSettings contains JWT authentication settings
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// RateLimitSettings contains rate limiting configuration
type RateLimitSettings struct {
	RequestsPerSecond       float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS"`
	Burst                   int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	SubmitRequestsPerSecond float64 `yaml:"submit_requests_per_second" env:"RATE_LIMIT_SUBMIT_RPS"`
	SubmitBurst             int     `yaml:"submit_burst" env:"RATE_LIMIT_SUBMIT_BURST"`
}

// ConnectionString returns the database connection string for the configured
// driver.
func (dbs *DatabaseSettings) ConnectionString() string {
	if dbs.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name,
		)
	}

	// MariaDB/MySQL connection string format: username:password@tcp(host:port)/dbname
	password := dbs.Password
	if password != "" {
		password = ":" + password
	}

	return fmt.Sprintf(
		"%s%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
	)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		err = yaml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Set defaults for missing values
	setDefaults(config)

	// Validate the configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Save the configuration globally
	cfg = config

	// Log the configuration (but hide sensitive values)
	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "resetgate"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	// Store defaults
	if config.Store.Backend == "" {
		config.Store.Backend = constants.DefaultStoreBackend
	}
	if config.Store.SessionTTL == 0 {
		config.Store.SessionTTL = constants.ResetSessionTTL
	}
	if config.Store.Redis.Addr == "" {
		config.Store.Redis.Addr = constants.DefaultRedisAddr
	}
	if config.Store.Database.Driver == "" {
		config.Store.Database.Driver = "mysql"
	}
	if config.Store.Database.MaxConns == 0 {
		config.Store.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Store.Database.MinConns == 0 {
		config.Store.Database.MinConns = constants.DefaultDBMinConnections
	}

	// Credential service defaults
	if config.Credential.Timeout == 0 {
		config.Credential.Timeout = constants.DefaultCredentialTimeout
	}

	// JWT defaults
	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	// Rate limit defaults
	if config.RateLimit.RequestsPerSecond == 0 {
		config.RateLimit.RequestsPerSecond = constants.DefaultRateLimitPerSecond
	}
	if config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = constants.DefaultRateLimitBurst
	}
	if config.RateLimit.SubmitRequestsPerSecond == 0 {
		config.RateLimit.SubmitRequestsPerSecond = constants.SubmitRateLimitPerSecond
	}
	if config.RateLimit.SubmitBurst == 0 {
		config.RateLimit.SubmitBurst = constants.SubmitRateLimitBurst
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	// Validate environment
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		// Instead of failing, use a default and warn
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// In production, ensure we have a proper JWT secret
	if config.App.IsProduction() && (config.JWT.Secret == "" || config.JWT.Secret == "changeme") {
		return fmt.Errorf("JWT secret must be set in production")
	}

	// Validate the store backend selection
	switch config.Store.Backend {
	case constants.StoreBackendMemory, constants.StoreBackendRedis, constants.StoreBackendSQL:
	default:
		return fmt.Errorf("invalid store backend: %s", config.Store.Backend)
	}

	// The sql backend needs connection details
	if config.Store.Backend == constants.StoreBackendSQL && config.Store.Database.User == "" {
		return fmt.Errorf("database user must be set for the sql store backend")
	}

	// The credential service endpoint is required outside testing
	if config.Credential.BaseURL == "" && !config.App.IsTesting() {
		return fmt.Errorf("credential service base URL must be set")
	}

	// Validate log level
	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	// Create a copy of the config to mask sensitive values
	logCfg := *config

	// Mask sensitive information
	if logCfg.Store.Database.Password != "" {
		logCfg.Store.Database.Password = constants.LogRedactedValue
	}
	if logCfg.Store.Redis.Password != "" {
		logCfg.Store.Redis.Password = constants.LogRedactedValue
	}
	if logCfg.JWT.Secret != "" {
		logCfg.JWT.Secret = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", logCfg.App.Environment).
		Str("version", logCfg.App.Version).
		Str("server", logCfg.Server.ServerAddress()).
		Str("store_backend", logCfg.Store.Backend).
		Dur("session_ttl", logCfg.Store.SessionTTL).
		Str("credential_base_url", logCfg.Credential.BaseURL).
		Str("log_level", logCfg.Logging.Level).
		Msg("Configuration loaded")
}
