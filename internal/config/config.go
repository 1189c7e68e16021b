package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gastos/internal/log"
	"gastos/internal/storage"
)

type Config struct {
	// Environment selects the bootstrap path: development creates the
	// database in place, production installs the bundled seed first.
	Environment storage.Environment

	// Database
	DataDir string
	DBName  string

	// Logging
	LogLevel string

	// AMQP change feed, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Environment: storage.Environment(getEnv("GASTOS_ENV", string(storage.Development))),

		DataDir: getEnv("GASTOS_DATA_DIR", "./data"),
		DBName:  getEnv("GASTOS_DB_NAME", "gastos.db"),

		LogLevel: getEnv("GASTOS_LOG_LEVEL", "info"),

		AMQPURL:      getEnv("GASTOS_AMQP_URL", ""),
		AMQPExchange: getEnv("GASTOS_AMQP_EXCHANGE", "gastos"),
		AMQPQueue:    getEnv("GASTOS_AMQP_QUEUE", "entries"),
	}
}

// DBPath returns the database file location. Production keeps the file under
// an SQLite subfolder of the data directory.
func (c *Config) DBPath() string {
	if c.Environment == storage.Production {
		return filepath.Join(c.DataDir, "SQLite", c.DBName)
	}
	return filepath.Join(c.DataDir, c.DBName)
}

// AMQPEnabled reports whether a broker is configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !c.Environment.IsValid() {
		errors = append(errors, fmt.Sprintf("invalid environment '%s': must be one of [%s %s]",
			c.Environment, storage.Development, storage.Production))
	}

	if strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	if strings.TrimSpace(c.DBName) == "" {
		errors = append(errors, "database name cannot be empty")
	} else if c.DBName != filepath.Base(c.DBName) {
		errors = append(errors, fmt.Sprintf("invalid database name '%s': must be a file name, not a path", c.DBName))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
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
	}

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
