// Package config holds the typed settings of the booking service.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/config"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/logger"
)

// ServiceName is the config file name and the environment variable prefix.
const ServiceName = "booking"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"

	OracleNotFound = "notfound"
	OracleLedger   = "ledger"
)

type Config struct {
	Service      ServiceConfig      `yaml:"service"`
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Storage      StorageConfig      `yaml:"storage"`
	Payment      PaymentConfig      `yaml:"payment"`
	Booking      BookingConfig      `yaml:"booking"`
	JWT          JWTConfig          `yaml:"jwt"`
	Email        EmailConfig        `yaml:"email"`
	Notification NotificationConfig `yaml:"notification"`
	Log          LogConfig          `yaml:"log"`
}

// Load reads configs/<APP_ENV>/booking.yaml with BOOKING_* environment overrides.
func Load() (*Config, error) {
	cfg, err := pkgconfig.Load(ServiceName)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg)
}

// FromConfig populates a Config from loaded settings, applies defaults and validates.
func FromConfig(cfg pkgconfig.Config) (*Config, error) {
	c := &Config{}

	c.Service.Name = stringOr(cfg, "service.name", ServiceName)
	c.Service.Environment = stringOr(cfg, "service.environment", "development")
	c.Service.Version = stringOr(cfg, "service.version", "dev")
	c.Service.EnableTestEndpoints = cfg.GetBool("service.enable_test_endpoints")

	c.Server.HTTP.Host = cfg.GetString("server.http.host")
	c.Server.HTTP.Port = intOr(cfg, "server.http.port", 8080)
	c.Server.GRPC.Host = cfg.GetString("server.grpc.host")
	c.Server.GRPC.Port = intOr(cfg, "server.grpc.port", 9090)

	c.Database.Host = stringOr(cfg, "database.host", "localhost")
	c.Database.Port = intOr(cfg, "database.port", 5432)
	c.Database.Name = cfg.GetString("database.name")
	c.Database.User = cfg.GetString("database.user")
	c.Database.Password = cfg.GetString("database.password")
	c.Database.SSLMode = stringOr(cfg, "database.ssl_mode", "disable")
	c.Database.MaxOpenConns = intOr(cfg, "database.max_open_conns", 25)
	c.Database.MaxIdleConns = intOr(cfg, "database.max_idle_conns", 5)
	c.Database.ConnMaxLifetime = durationOr(cfg, "database.conn_max_lifetime", 5*time.Minute)
	c.Database.ConnMaxIdleTime = durationOr(cfg, "database.conn_max_idle_time", time.Minute)
	c.Database.SlowThreshold = durationOr(cfg, "database.slow_threshold", 200*time.Millisecond)
	c.Database.LogLevel = stringOr(cfg, "database.log_level", "warn")

	c.Redis.Host = stringOr(cfg, "redis.host", "localhost")
	c.Redis.Port = intOr(cfg, "redis.port", 6379)
	c.Redis.Password = cfg.GetString("redis.password")
	c.Redis.DB = cfg.GetInt("redis.db")

	c.Storage.Driver = stringOr(cfg, "storage.driver", StorageMemory)
	c.Storage.RegistryDriver = stringOr(cfg, "storage.registry_driver", StorageMemory)
	c.Storage.RegistryRetention = durationOr(cfg, "storage.registry_retention", time.Hour)

	c.Payment.Oracle = stringOr(cfg, "payment.oracle", OracleNotFound)
	c.Payment.BankTimeout = durationOr(cfg, "payment.bank_timeout", 5*time.Second)
	c.Payment.SweepInterval = durationOr(cfg, "payment.sweep_interval", time.Minute)

	c.Booking.Timezone = stringOr(cfg, "booking.timezone", "Asia/Kolkata")
	c.Booking.QRSecret = cfg.GetString("booking.qr_secret")

	c.JWT.Secret = cfg.GetString("jwt.secret")
	c.JWT.Issuer = cfg.GetString("jwt.issuer")

	c.Email.SMTPHost = cfg.GetString("email.smtp_host")
	c.Email.SMTPPort = intOr(cfg, "email.smtp_port", 587)
	c.Email.Username = cfg.GetString("email.username")
	c.Email.Password = cfg.GetString("email.password")
	c.Email.FromAddress = cfg.GetString("email.from_address")
	c.Email.FromName = stringOr(cfg, "email.from_name", "Bookings")

	c.Notification.Channel = stringOr(cfg, "notification.channel", "booking-events")
	c.Notification.QueueSize = intOr(cfg, "notification.queue_size", 256)
	c.Notification.Workers = intOr(cfg, "notification.workers", 4)
	c.Notification.Timeout = durationOr(cfg, "notification.timeout", 10*time.Second)

	c.Log.Level = stringOr(cfg, "log.level", "info")
	c.Log.Format = stringOr(cfg, "log.format", "json")
	c.Log.Output = stringOr(cfg, "log.output", "stdout")
	c.Log.FilePath = cfg.GetString("log.file_path")
	c.Log.Development = cfg.GetBool("log.development")

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unsupported storage.driver %q", c.Storage.Driver)
	}
	switch c.Storage.RegistryDriver {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unsupported storage.registry_driver %q", c.Storage.RegistryDriver)
	}
	switch c.Payment.Oracle {
	case OracleNotFound, OracleLedger:
	default:
		return fmt.Errorf("unsupported payment.oracle %q", c.Payment.Oracle)
	}
	if c.Payment.Oracle == OracleLedger && c.Service.IsProduction() {
		return fmt.Errorf("payment.oracle %q is not allowed in production", OracleLedger)
	}
	if c.Payment.BankTimeout <= 0 {
		return fmt.Errorf("payment.bank_timeout must be positive")
	}
	if c.Booking.QRSecret == "" {
		return fmt.Errorf("booking.qr_secret is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("invalid booking.timezone %q: %w", c.Booking.Timezone, err)
	}
	if c.Notification.QueueSize <= 0 || c.Notification.Workers <= 0 {
		return fmt.Errorf("notification.queue_size and notification.workers must be positive")
	}
	return nil
}

// Location returns the timezone visiting times are interpreted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoggerConfig converts the log section for pkg/logger.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       c.Log.Level,
		Format:      c.Log.Format,
		Output:      c.Log.Output,
		FilePath:    c.Log.FilePath,
		Development: c.Log.Development,
	}
}

// TestEndpointsEnabled reports whether internal simulation routes are mounted.
func (c *Config) TestEndpointsEnabled() bool {
	return c.Service.EnableTestEndpoints && !c.Service.IsProduction()
}

func stringOr(cfg pkgconfig.Config, key, def string) string {
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return def
}

func intOr(cfg pkgconfig.Config, key string, def int) int {
	if cfg.IsSet(key) {
		return cfg.GetInt(key)
	}
	return def
}

func durationOr(cfg pkgconfig.Config, key string, def time.Duration) time.Duration {
	if cfg.IsSet(key) {
		return cfg.GetDuration(key)
	}
	return def
}
