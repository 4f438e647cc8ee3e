// Package config handles external configuration loading from JSON and environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Debug    bool     `json:"debug"`
	Server   Server   `json:"server"`
	Database Database `json:"database"`
	Workshop Workshop `json:"workshop"`
	Billing  Billing  `json:"billing"`
	JWT      JWT      `json:"jwt"`
}

// Server holds HTTP server configuration
type Server struct {
	Port         int    `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"readTimeout"`
	WriteTimeout int    `json:"writeTimeout"`
}

// Database holds database configuration
type Database struct {
	Path string `json:"path"`
}

// Workshop holds the shop's identity, printed on invoices and
// delivery documents.
type Workshop struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

// Billing holds pricing configuration
type Billing struct {
	TaxRatePercent float64 `json:"taxRatePercent"`
	Currency       string  `json:"currency"`
	WarrantyDays   int     `json:"warrantyDays"`
}

// JWT holds JWT configuration
type JWT struct {
	Secret          string `json:"secret"`
	ExpirationHours int    `json:"expirationHours"`
}

// Load reads configuration from the specified JSON file and overrides with environment variables
func Load(configPath string) (*Config, error) {
	var cfg Config

	cleanPath := filepath.Clean(configPath)

	data, err := os.ReadFile(cleanPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, we continue with empty config and rely on Env Vars

	cfg.applyEnvOverrides()

	// Set defaults if missing (e.g. for purely env-based config)
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.ExpirationHours == 0 {
		cfg.JWT.ExpirationHours = 24
	}
	if cfg.Billing.TaxRatePercent == 0 {
		cfg.Billing.TaxRatePercent = 19
	}
	if cfg.Billing.Currency == "" {
		cfg.Billing.Currency = "COP"
	}
	if cfg.Billing.WarrantyDays == 0 {
		cfg.Billing.WarrantyDays = 30
	}
	if cfg.Workshop.Name == "" {
		cfg.Workshop.Name = "BiciFix Pro"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides overrides config values with environment variables if set
func (c *Config) applyEnvOverrides() {
	if debug := os.Getenv("DEBUG"); debug != "" {
		c.Debug = debug == "true" || debug == "1"
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		c.Database.Path = dbPath
	}

	if rate := os.Getenv("TAX_RATE_PERCENT"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			c.Billing.TaxRatePercent = r
		}
	}

	// JWT secret (critical for production)
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
}

// validate checks that all required configuration values are present
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	// Validate database path for security
	cleanDBPath := filepath.Clean(c.Database.Path)
	if !filepath.IsLocal(cleanDBPath) && !filepath.IsAbs(cleanDBPath) {
		return fmt.Errorf("invalid database path: potential path traversal detected")
	}

	if c.Billing.TaxRatePercent < 0 || c.Billing.TaxRatePercent > 100 {
		return fmt.Errorf("invalid tax rate: %v", c.Billing.TaxRatePercent)
	}

	if c.JWT.Secret == "" || c.JWT.Secret == "CHANGE_THIS_SECRET_IN_PRODUCTION" {
		if !c.Debug {
			return fmt.Errorf("JWT secret must be changed for production")
		}
	}

	if c.JWT.ExpirationHours <= 0 {
		c.JWT.ExpirationHours = 24
	}

	return nil
}

// Address returns the full server address (host:port)
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabasePath returns the cleaned and validated database path
func (c *Config) GetDatabasePath() string {
	return filepath.Clean(c.Database.Path)
}
