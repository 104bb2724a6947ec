package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Data backends.
const (
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendSheets   = "sheets"
)

var validBackends = []string{BackendCSV, BackendSQLite, BackendPostgres, BackendSheets}

type Config struct {
	// HTTP Server
	Port           string
	SecureCookies  bool
	TrustedProxies []string

	// Dataset
	DataBackend  string
	CSVPath      string
	SQLiteDBPath string
	PostgresDSN  string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetRange         string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Single-account login, compared as plaintext.
	AuthUsername  string
	AuthPassword  string
	SessionSecret string

	// Dashboard cache
	CacheTTL  time.Duration
	CacheSize int
	RedisURL  string

	// Login audit (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel  string
	LogFormat string

	// Live refresh
	LiveMinInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8050"),
		SecureCookies:  getEnvBool("SECURE_COOKIES", false),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),

		DataBackend:  strings.ToLower(getEnv("DATA_BACKEND", BackendCSV)),
		CSVPath:      getEnv("CSV_PATH", "./data/zambia_mobile_money_transactions.csv"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/momodash.db"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:         getEnv("GOOGLE_SHEET_RANGE", "Transactions"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		AuthUsername:  os.Getenv("AUTH_USERNAME"),
		AuthPassword:  os.Getenv("AUTH_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize: getEnvInt("CACHE_SIZE", 256),
		RedisURL:  getEnv("REDIS_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "momodash"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "login_audit"),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		LiveMinInterval: getEnvDuration("LIVE_MIN_INTERVAL", 10*time.Second),
	}
}

// Validate checks the configuration used by the dashboard server and
// returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR such as 203.0.113.0/24", cidr))
		}
	}

	errors = append(errors, c.validateData()...)

	if c.AuthUsername == "" {
		errors = append(errors, "AUTH_USERNAME is required")
	}
	if c.AuthPassword == "" {
		errors = append(errors, "AUTH_PASSWORD is required")
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < 16 {
		errors = append(errors, "SESSION_SECRET must be at least 16 characters")
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.RedisURL != "" {
		if u, err := url.Parse(c.RedisURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Redis URL '%s': %v", c.RedisURL, err))
		} else if u.Scheme != "redis" && u.Scheme != "rediss" {
			errors = append(errors, fmt.Sprintf("invalid Redis URL scheme '%s': must be 'redis' or 'rediss'", u.Scheme))
		}
	}

	errors = append(errors, c.validateAMQP()...)

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}
	if c.LiveMinInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid live refresh interval %v: must be at least 1 second", c.LiveMinInterval))
	}

	return combine(errors)
}

// ValidateIngest checks only what cmd/ingest needs: a CSV input and a SQL
// target.
func (c *Config) ValidateIngest() error {
	var errors []string
	if c.CSVPath == "" {
		errors = append(errors, "CSV_PATH is required")
	}
	if c.DataBackend != BackendSQLite && c.DataBackend != BackendPostgres {
		errors = append(errors, fmt.Sprintf("ingest target '%s' must be sqlite or postgres", c.DataBackend))
	}
	errors = append(errors, c.validateData()...)
	return combine(errors)
}

// ValidateWorker checks what the audit worker needs.
func (c *Config) ValidateWorker() error {
	var errors []string
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required for the audit worker")
	}
	errors = append(errors, c.validateAMQP()...)
	return combine(errors)
}

func (c *Config) validateData() []string {
	var errors []string
	if !slices.Contains(validBackends, c.DataBackend) {
		return append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendCSV:
		if c.CSVPath == "" {
			errors = append(errors, "CSV path cannot be empty when using csv backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errors = append(errors, "POSTGRES_DSN is required when using postgres backend")
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}
	return errors
}

func (c *Config) validateAMQP() []string {
	if c.AMQPURL == "" {
		return nil
	}
	var errors []string
	if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
	} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
		errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
	}
	if c.AMQPExchange == "" {
		errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
	}
	if c.AMQPQueue == "" {
		errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
	}
	return errors
}

func combine(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
