package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Email       EmailConfig       `yaml:"email"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Idempotency IdempotencyConfig `yaml:"idempotency"`
	Billing     BillingConfig     `yaml:"billing"`
	Booking     BookingConfig     `yaml:"booking"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Log         LogConfig         `yaml:"log"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains notification email settings. Provider is "smtp"
// (gomail) or "sendgrid".
type EmailConfig struct {
	Provider       string `yaml:"provider"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	From           string `yaml:"from"`
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
}

// KafkaConfig contains event publication settings. An empty broker list
// disables publishing.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// IdempotencyConfig contains the embedded request-dedup store settings
type IdempotencyConfig struct {
	Path string `yaml:"path"`
}

// BillingConfig contains marketplace fee settings
type BillingConfig struct {
	PlatformFeePercent float64 `yaml:"platform_fee_percent"`
}

// BookingConfig contains reservation settings
type BookingConfig struct {
	PropertyPrefix     string `yaml:"property_prefix"`
	CarPrefix          string `yaml:"car_prefix"`
	PendingExpiryHours int32  `yaml:"pending_expiry_hours"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireStalePendingReservations string `yaml:"expire_stale_pending_reservations"`
	SendRefundPendingReminders     string `yaml:"send_refund_pending_reminders"`
	PublishEarningsSnapshots       string `yaml:"publish_earnings_snapshots"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Email.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Email.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Email.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Email.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.Email.From = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}

	// Kafka
	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		c.Kafka.Brokers = strings.Split(val, ",")
	}
	if val := os.Getenv("KAFKA_TOPIC"); val != "" {
		c.Kafka.Topic = val
	}

	// Billing
	if val := os.Getenv("PLATFORM_FEE_PERCENT"); val != "" {
		fmt.Sscanf(val, "%f", &c.Billing.PlatformFeePercent)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Email validation
	if c.Email.Provider == "" {
		c.Email.Provider = "smtp"
	}
	switch c.Email.Provider {
	case "smtp":
		if c.Email.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Email.Port <= 0 || c.Email.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.Port)
		}
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required")
		}
	default:
		return fmt.Errorf("unknown email provider: %s", c.Email.Provider)
	}

	// Kafka validation: topic required only when publishing is enabled
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required when brokers are configured")
	}

	// Idempotency defaults
	if c.Idempotency.Path == "" {
		c.Idempotency.Path = "refund_requests.db"
	}

	// Billing defaults
	if c.Billing.PlatformFeePercent == 0 {
		c.Billing.PlatformFeePercent = 10
	}
	if c.Billing.PlatformFeePercent < 0 || c.Billing.PlatformFeePercent > 100 {
		return fmt.Errorf("invalid platform fee percent: %f", c.Billing.PlatformFeePercent)
	}

	// Booking defaults
	if c.Booking.PropertyPrefix == "" {
		c.Booking.PropertyPrefix = "STY"
	}
	if c.Booking.CarPrefix == "" {
		c.Booking.CarPrefix = "CAR"
	}
	if c.Booking.PendingExpiryHours == 0 {
		c.Booking.PendingExpiryHours = 24
	}

	// Scheduler defaults
	if c.Scheduler.ExpireStalePendingReservations == "" {
		c.Scheduler.ExpireStalePendingReservations = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendRefundPendingReminders == "" {
		c.Scheduler.SendRefundPendingReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.PublishEarningsSnapshots == "" {
		c.Scheduler.PublishEarningsSnapshots = "0 30 23 * * *" // 11:30 PM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
