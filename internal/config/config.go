package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Cart      CartConfig      `yaml:"cart"`
	Email     EmailConfig     `yaml:"email"`
	Auth      AuthConfig      `yaml:"auth"`
	JWT       JWTConfig       `yaml:"jwt"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host                   string   `yaml:"host"`
	HTTPPort               int      `yaml:"http_port"`
	GRPCPort               int      `yaml:"grpc_port"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
	CORSAllowedOrigins     []string `yaml:"cors_allowed_origins"`
	MaxBodyKB              int64    `yaml:"max_body_kb"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// RedisConfig is only read when the cart store is "redis"
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CartConfig struct {
	Store      string `yaml:"store"` // "memory" or "redis"
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// EmailConfig selects how booking emails are rendered and delivered
type EmailConfig struct {
	Mode                string         `yaml:"mode"`     // "local" renders in process, "remote" calls the email function over gRPC
	Provider            string         `yaml:"provider"` // "log", "sendgrid", "smtp" or "mailjet"
	From                string         `yaml:"from"`
	FromName            string         `yaml:"from_name"`
	Brand               string         `yaml:"brand"`
	Currency            string         `yaml:"currency"`
	PaymentInstructions string         `yaml:"payment_instructions"`
	RemoteAddr          string         `yaml:"remote_addr"`
	OutboxMaxAttempts   int            `yaml:"outbox_max_attempts"`
	SendGrid            SendGridConfig `yaml:"sendgrid"`
	SMTP                SMTPConfig     `yaml:"smtp"`
	Mailjet             MailjetConfig  `yaml:"mailjet"`
}

type SendGridConfig struct {
	APIKey string `yaml:"api_key"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type MailjetConfig struct {
	PublicKey  string `yaml:"public_key"`
	PrivateKey string `yaml:"private_key"`
}

// AuthConfig selects the identity provider for the admin console
type AuthConfig struct {
	Provider                string   `yaml:"provider"` // "local" or "firebase"
	FirebaseProjectID       string   `yaml:"firebase_project_id"`
	FirebaseCredentialsFile string   `yaml:"firebase_credentials_file"`
	BootstrapAdmins         []string `yaml:"bootstrap_admins"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret           string `yaml:"secret"`
	AdminTokenExpiry int    `yaml:"admin_token_expiry_minutes"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	Type         string   `yaml:"type"`       // only "local" for now
	UploadDir    string   `yaml:"upload_dir"` // For local storage
	BaseURL      string   `yaml:"base_url"`   // Public base URL images are served from
	MaxFileSize  int64    `yaml:"max_file_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// CatalogConfig holds the image shown for an item without its own picture
type CatalogConfig struct {
	DefaultImages map[string]string `yaml:"default_images"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RetryFailedEmails string `yaml:"retry_failed_emails"`
	PurgeSentEmails   string `yaml:"purge_sent_emails"`
	SentRetentionDays int    `yaml:"sent_retention_days"`
	RetryBatchSize    int    `yaml:"retry_batch_size"`
}

// Load reads configuration from a YAML file. A .env file in the working
// directory, when present, is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a configuration from YAML, applying environment overrides and defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
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

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}
	if val := os.Getenv("CART_STORE"); val != "" {
		c.Cart.Store = val
	}

	// Email
	if val := os.Getenv("EMAIL_MODE"); val != "" {
		c.Email.Mode = val
	}
	if val := os.Getenv("EMAIL_PROVIDER"); val != "" {
		c.Email.Provider = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}
	if val := os.Getenv("EMAIL_REMOTE_ADDR"); val != "" {
		c.Email.RemoteAddr = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGrid.APIKey = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Email.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Email.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Email.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Email.SMTP.Password = val
	}
	if val := os.Getenv("MAILJET_PUBLIC_KEY"); val != "" {
		c.Email.Mailjet.PublicKey = val
	}
	if val := os.Getenv("MAILJET_PRIVATE_KEY"); val != "" {
		c.Email.Mailjet.PrivateKey = val
	}

	// Auth
	if val := os.Getenv("AUTH_PROVIDER"); val != "" {
		c.Auth.Provider = val
	}
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Auth.FirebaseProjectID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		c.Auth.FirebaseCredentialsFile = val
	}
	if val := os.Getenv("BOOTSTRAP_ADMINS"); val != "" {
		c.Auth.BootstrapAdmins = strings.Split(val, ",")
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.HTTPPort)
	}
	if val := os.Getenv("GRPC_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.GRPCPort)
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.Server.GRPCPort)
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = 10
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.MaxBodyKB <= 0 {
		c.Server.MaxBodyKB = 1024
	}

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
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// Cart
	switch c.Cart.Store {
	case "":
		c.Cart.Store = "memory"
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis cart store")
		}
	default:
		return fmt.Errorf("unknown cart store: %s", c.Cart.Store)
	}
	if c.Cart.TTLMinutes == 0 {
		c.Cart.TTLMinutes = 7 * 24 * 60
	}

	if err := c.validateEmail(); err != nil {
		return err
	}

	// Auth
	switch c.Auth.Provider {
	case "":
		c.Auth.Provider = "local"
	case "local":
	case "firebase":
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("firebase project id is required for the firebase auth provider")
		}
	default:
		return fmt.Errorf("unknown auth provider: %s", c.Auth.Provider)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AdminTokenExpiry == 0 {
		c.JWT.AdminTokenExpiry = 60
	}

	// Storage validation
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 5
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}

	// Scheduler defaults
	if c.Scheduler.RetryFailedEmails == "" {
		c.Scheduler.RetryFailedEmails = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.PurgeSentEmails == "" {
		c.Scheduler.PurgeSentEmails = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.SentRetentionDays == 0 {
		c.Scheduler.SentRetentionDays = 30
	}
	if c.Scheduler.RetryBatchSize == 0 {
		c.Scheduler.RetryBatchSize = 50
	}

	return nil
}

func (c *Config) validateEmail() error {
	e := &c.Email
	if e.Mode == "" {
		e.Mode = "local"
	}
	if e.Provider == "" {
		e.Provider = "log"
	}
	if e.Brand == "" {
		e.Brand = "SBuild Rentals"
	}
	if e.Currency == "" {
		e.Currency = "₵"
	}
	if e.FromName == "" {
		e.FromName = e.Brand
	}
	if e.OutboxMaxAttempts == 0 {
		e.OutboxMaxAttempts = 5
	}

	switch e.Mode {
	case "local":
	case "remote":
		if e.RemoteAddr == "" {
			return fmt.Errorf("email remote address is required in remote mode")
		}
	default:
		return fmt.Errorf("unknown email mode: %s", e.Mode)
	}

	switch e.Provider {
	case "log":
		return nil
	case "sendgrid":
		if e.SendGrid.APIKey == "" {
			return fmt.Errorf("sendgrid api key is required")
		}
	case "smtp":
		if e.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if e.SMTP.Port <= 0 || e.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", e.SMTP.Port)
		}
	case "mailjet":
		if e.Mailjet.PublicKey == "" || e.Mailjet.PrivateKey == "" {
			return fmt.Errorf("mailjet api keys are required")
		}
	default:
		return fmt.Errorf("unknown email provider: %s", e.Provider)
	}
	if e.From == "" {
		return fmt.Errorf("email from address is required")
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

// GetHTTPAddress returns the HTTP server address
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GetGRPCAddress returns the gRPC server address. Empty when gRPC is disabled.
func (c *Config) GetGRPCAddress() string {
	if c.Server.GRPCPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

func (c *Config) CartTTL() time.Duration {
	return time.Duration(c.Cart.TTLMinutes) * time.Minute
}

func (c *Config) AdminTokenTTL() time.Duration {
	return time.Duration(c.JWT.AdminTokenExpiry) * time.Minute
}
