package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"runway/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Budget constants, fixed for the process lifetime
	StartBudget string
	Deadline    string

	// Worker
	SweepInterval time.Duration

	// Backend selection
	DataBackend string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/runway.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "runway"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		StartBudget: getEnv("START_BUDGET", ""),
		Deadline:    getEnv("DEADLINE", ""),

		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 10*time.Minute),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
	}

	return cfg
}

// Budget parses the budget constants into their domain form. Call Validate
// first; Budget assumes a valid configuration.
func (c *Config) Budget() (core.BudgetConfig, error) {
	cents, err := core.ParseDecimalToCents(c.StartBudget)
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("parse START_BUDGET %q: %w", c.StartBudget, err)
	}
	deadline, err := core.ParseDate(c.Deadline)
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("parse DEADLINE %q: %w", c.Deadline, err)
	}

	budget := core.BudgetConfig{
		StartBudget: core.Money{Cents: cents},
		Deadline:    deadline,
	}
	if err := budget.Validate(); err != nil {
		return core.BudgetConfig{}, fmt.Errorf("budget configuration: %w", err)
	}
	return budget, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate budget constants
	if c.StartBudget == "" {
		errors = append(errors, "START_BUDGET must be set (decimal amount > 0)")
	} else if cents, err := core.ParseDecimalToCents(c.StartBudget); err != nil {
		errors = append(errors, fmt.Sprintf("invalid START_BUDGET '%s': must be a decimal amount", c.StartBudget))
	} else if cents <= 0 {
		errors = append(errors, fmt.Sprintf("invalid START_BUDGET '%s': must be greater than zero", c.StartBudget))
	}

	if c.Deadline == "" {
		errors = append(errors, "DEADLINE must be set (YYYY-MM-DD)")
	} else if _, err := core.ParseDate(c.Deadline); err != nil {
		errors = append(errors, fmt.Sprintf("invalid DEADLINE '%s': must be YYYY-MM-DD", c.Deadline))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
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

	// Validate worker configuration
	if c.SweepInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sweep interval %v: must be at least 1 second", c.SweepInterval))
	} else if c.SweepInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sweep interval %v: must be at most 24 hours", c.SweepInterval))
	}

	// Return combined errors
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
