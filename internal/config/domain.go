package config

import "time"

// PaymentConfig tunes payment verification.
type PaymentConfig struct {
	// Oracle selects the bank verification backend: notfound | ledger
	Oracle        string        `yaml:"oracle"`
	BankTimeout   time.Duration `yaml:"bank_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// BookingConfig tunes the booking lifecycle.
type BookingConfig struct {
	// Timezone visiting dates and times are interpreted in.
	Timezone string `yaml:"timezone"`
	QRSecret string `yaml:"qr_secret"`
}

// JWTConfig holds token verification settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// EmailConfig holds SMTP settings. An empty host disables mail delivery.
type EmailConfig struct {
	SMTPHost    string `yaml:"smtp_host"`
	SMTPPort    int    `yaml:"smtp_port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	FromAddress string `yaml:"from_address"`
	FromName    string `yaml:"from_name"`
}

// Enabled reports whether an SMTP server is configured.
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != ""
}

// NotificationConfig tunes the asynchronous notification dispatcher.
type NotificationConfig struct {
	Channel   string        `yaml:"channel"`
	QueueSize int           `yaml:"queue_size"`
	Workers   int           `yaml:"workers"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LogConfig mirrors pkg/logger.Config
type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	FilePath    string `yaml:"file_path"`
	Development bool   `yaml:"development"`
}
