package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	ERPNext     ERPNextConfig
	Redis       RedisConfig
	Session     SessionConfig
	Checkout    CheckoutConfig
}

// ERPNextConfig is used to call the ERPNext (Frappe) REST API
type ERPNextConfig struct {
	BaseURL   string // e.g. https://erp.oskaz.com
	APIKey    string // ERPNEXT_API_KEY
	APISecret string // ERPNEXT_API_SECRET
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig verifies identity-provider session tokens.
// The storefront never issues tokens itself.
type SessionConfig struct {
	JWTSecret string
}

type CheckoutConfig struct {
	DefaultWarehouse string // warehouse stamped on every sales order line
	DeliveryLeadDays int    // delivery_date default: now + N days
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", "0")
	viper.SetDefault("DEFAULT_WAREHOUSE", "Stores - OD")
	viper.SetDefault("DELIVERY_LEAD_DAYS", "7")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		ERPNext: ERPNextConfig{
			BaseURL:   strings.TrimSpace(getEnvOrViper("ERPNEXT_URL", "")),
			APIKey:    strings.TrimSpace(getEnvOrViper("ERPNEXT_API_KEY", "")),
			APISecret: strings.TrimSpace(getEnvOrViper("ERPNEXT_API_SECRET", "")),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       getEnvOrViperInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			JWTSecret: strings.TrimSpace(getEnvOrViper("SESSION_JWT_SECRET", "")),
		},
		Checkout: CheckoutConfig{
			DefaultWarehouse: getEnvOrViper("DEFAULT_WAREHOUSE", "Stores - OD"),
			DeliveryLeadDays: getEnvOrViperInt("DELIVERY_LEAD_DAYS", 7),
		},
	}

	// Validate required fields
	if cfg.ERPNext.BaseURL == "" {
		return nil, fmt.Errorf("ERPNEXT_URL is required")
	}
	if cfg.ERPNext.APIKey == "" || cfg.ERPNext.APISecret == "" {
		return nil, fmt.Errorf("ERPNEXT_API_KEY and ERPNEXT_API_SECRET are required")
	}
	if cfg.Checkout.DeliveryLeadDays < 0 {
		return nil, fmt.Errorf("DELIVERY_LEAD_DAYS must not be negative")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getEnvOrViperInt(key string, defaultValue int) int {
	raw := getEnvOrViper(key, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
