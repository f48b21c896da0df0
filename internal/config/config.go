package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Session defaults
	DefaultMultiplierA float64
	DefaultMultiplierB float64
	MaxUploadBytes     int64

	// Report history database
	SQLiteDBPath string
	HistoryLimit int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Timesheet source: "upload" (xlsx via the browser) or "sheets"
	// (Google Sheets range).
	DataSource string

	// Google Sheets
	GoogleSpreadsheetID  string
	GoogleDataRange      string
	GoogleReportLogSheet string

	// Report cache
	CacheSize int
	CacheTTL  time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		DefaultMultiplierA: getEnvFloat("MULTIPLIER_A", 0),
		DefaultMultiplierB: getEnvFloat("MULTIPLIER_B", 0),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pontber.db"),
		HistoryLimit: getEnvInt("HISTORY_LIMIT", 20),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pontber"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_events"),

		DataSource: getEnv("DATA_SOURCE", "upload"),

		GoogleSpreadsheetID:  getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleDataRange:      getEnv("GOOGLE_DATA_RANGE", "Munkalap1!A:P"),
		GoogleReportLogSheet: getEnv("GOOGLE_REPORT_LOG_SHEET", "Riport napló"),

		CacheSize: getEnvInt("REPORT_CACHE_SIZE", 16),
		CacheTTL:  getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataSource {
	case "upload":
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			problems = append(problems, "GOOGLE_SPREADSHEET_ID is required for the sheets data source")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data source '%s': must be 'upload' or 'sheets'", c.DataSource))
	}

	if c.DefaultMultiplierA < 0 || c.DefaultMultiplierB < 0 {
		problems = append(problems, "multipliers must not be negative")
	}
	if c.MaxUploadBytes < 1024 {
		problems = append(problems, fmt.Sprintf("invalid upload limit %d: must be at least 1024 bytes", c.MaxUploadBytes))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid report cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		problems = append(problems, fmt.Sprintf("invalid report cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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
