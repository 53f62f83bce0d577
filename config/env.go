package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"

	UploadDrive      = "drive"
	UploadCloudinary = "cloudinary"

	defaultJWTSecret = "secret"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string
	Location *time.Location

	StoreDriver     string
	SpreadsheetID   string
	SpreadsheetName string

	GoogleCredentialsJSON string
	GoogleCredentialsFile string

	UploadDriver        string
	DriveFolderID       string
	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	MaxUploadSize       int64

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	AppendRetries uint64

	JWTSecret         string
	JWTExpiry         time.Duration
	AdminEmail        string
	AdminPasswordHash string
	AdminPassword     string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	OriginURL    string
	PaymentQRURL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("APP_PORT", getEnv("PORT", "8082")),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Location: loc,

		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", StoreSheets)),
		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		SpreadsheetName: getEnv("SPREADSHEET_NAME", "STEM Explorer Orders"),

		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		UploadDriver:        strings.ToLower(getEnv("UPLOAD_DRIVER", UploadDrive)),
		DriveFolderID:       getEnv("DRIVE_FOLDER_ID", ""),
		CloudinaryURL:       getEnv("CLOUDINARY_URL", ""),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "receipts"),
		MaxUploadSize:       getEnvInt64("MAX_UPLOAD_SIZE", 5242880),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "stem_orders"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getEnvDuration("CACHE_TTL", 300*time.Second),

		AppendRetries: uint64(getEnvInt64("APPEND_RETRIES", 3)),

		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: int(getEnvInt64("SMTP_PORT", 587)),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", ""),

		OriginURL:    getEnv("ORIGIN_URL", ""),
		PaymentQRURL: getEnv("PAYMENT_QR_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("env", cfg.AppEnv).
		Str("port", cfg.Port).
		Str("store", cfg.StoreDriver).
		Str("upload", cfg.UploadDriver).
		Msg("Configuration loaded successfully")
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreSheets:
		if c.SpreadsheetID == "" && c.SpreadsheetName == "" {
			return errors.New("SPREADSHEET_ID or SPREADSHEET_NAME is required")
		}
	case StorePostgres:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.UploadDriver {
	case UploadDrive:
		if c.DriveFolderID == "" {
			return errors.New("DRIVE_FOLDER_ID is required")
		}
	case UploadCloudinary:
		if c.CloudinaryURL == "" && (c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "") {
			return errors.New("cloudinary environment variables not set")
		}
	default:
		return fmt.Errorf("unsupported UPLOAD_DRIVER %q", c.UploadDriver)
	}

	if c.NeedsGoogle() && c.GoogleCredentialsJSON == "" && c.GoogleCredentialsFile == "" {
		return errors.New("GOOGLE_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS is required")
	}

	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}

	if c.AuthEnabled() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a private value when ADMIN_EMAIL is configured")
	}
	return nil
}

// AuthEnabled reports whether an operator account guards the dashboard.
func (c *Config) AuthEnabled() bool {
	return c.AdminEmail != "" && (c.AdminPasswordHash != "" || c.AdminPassword != "")
}

// NeedsGoogle reports whether any configured gateway talks to Google APIs.
func (c *Config) NeedsGoogle() bool {
	return c.StoreDriver == StoreSheets || c.UploadDriver == UploadDrive
}

// GoogleCredentials returns the service account JSON, reading the key file
// when no inline value is set.
func (c *Config) GoogleCredentials() ([]byte, error) {
	if c.GoogleCredentialsJSON != "" {
		return []byte(c.GoogleCredentialsJSON), nil
	}
	data, err := os.ReadFile(c.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials: %w", err)
	}
	return data, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
