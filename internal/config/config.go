package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// Accounts
	AccountDir     string
	DefaultAccount string

	// Sweep worker
	SweepAccounts []string
	SweepSchedule string

	// Logging
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		AccountDir:     getEnv("MONETA_ACCOUNT_DIR", "./data"),
		DefaultAccount: getEnv("MONETA_ACCOUNT", ""),

		SweepAccounts: getEnvList("MONETA_SWEEP_ACCOUNTS"),
		SweepSchedule: getEnv("MONETA_SWEEP_SCHEDULE", "@daily"),

		LogLevel: getEnv("MONETA_LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if c.LogLevel == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if c.AccountDir == "" {
		errors = append(errors, "account directory cannot be empty")
	} else {
		if _, err := os.Stat(c.AccountDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.AccountDir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create account directory '%s': %v", c.AccountDir, err))
			}
		}
	}

	if c.SweepSchedule == "" {
		errors = append(errors, "sweep schedule cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

// AccountPath resolves an account name or path to a file path: absolute
// paths and paths with separators pass through, bare names land in the
// account directory with a .nmoney extension.
func (c *Config) AccountPath(name string) string {
	if name == "" {
		name = c.DefaultAccount
	}
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	if filepath.Ext(name) == "" {
		name += ".nmoney"
	}
	return filepath.Join(c.AccountDir, name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
