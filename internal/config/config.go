package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	Host      string
	ShotGrid  ShotGridConfig
	FileMaker FileMakerConfig
	Database  DatabaseConfig
	Broker    BrokerConfig
}

type ShotGridConfig struct {
	URL        string
	ScriptName string
	ScriptKey  string
	Timeout    time.Duration
}

// Validate reports whether the ShotGrid credentials are present.
func (c *ShotGridConfig) Validate() error {
	if c.URL == "" || c.ScriptName == "" || c.ScriptKey == "" {
		return fmt.Errorf("missing ShotGrid environment credentials (SG_URL, SG_SCRIPT_NAME, SG_SCRIPT_KEY)")
	}
	return nil
}

type FileMakerConfig struct {
	BaseURL  string
	Database string
	Layout   string
	User     string
	Password string
	Timeout  time.Duration
}

// Validate reports whether the FileMaker connection settings are present.
func (c *FileMakerConfig) Validate() error {
	if c.BaseURL == "" || c.Database == "" || c.Layout == "" || c.User == "" || c.Password == "" {
		return fmt.Errorf("missing FileMaker environment settings (FMP_BASE_URL, FMP_DATABASE, FMP_LAYOUT, FMP_USER, FMP_PASSWORD)")
	}
	return nil
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c *DatabaseConfig) ConnectionString() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=" + c.SSLMode
}

type BrokerConfig struct {
	URL      string
	ClientID string
	Username string
	Password string
}

// Enabled reports whether event publishing is configured at all.
func (c *BrokerConfig) Enabled() bool {
	return c.URL != ""
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "5000"),
		Host: getEnv("HOST", "0.0.0.0"),
		ShotGrid: ShotGridConfig{
			URL:        getEnv("SG_URL", ""),
			ScriptName: getEnv("SG_SCRIPT_NAME", ""),
			ScriptKey:  getEnv("SG_SCRIPT_KEY", ""),
			Timeout:    getDuration("SG_TIMEOUT", 30*time.Second),
		},
		FileMaker: FileMakerConfig{
			BaseURL:  getEnv("FMP_BASE_URL", ""),
			Database: getEnv("FMP_DATABASE", ""),
			Layout:   getEnv("FMP_LAYOUT", ""),
			User:     getEnv("FMP_USER", ""),
			Password: getEnv("FMP_PASSWORD", ""),
			Timeout:  getDuration("FMP_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "platesync"),
			Password: getEnv("DATABASE_PASSWORD", "platesync"),
			Name:     getEnv("DATABASE_NAME", "platesync"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Broker: BrokerConfig{
			URL:      getEnv("BROKER_URL", ""),
			ClientID: getEnv("BROKER_CLIENT_ID", "plate-pusher-001"),
			Username: getEnv("BROKER_USERNAME", ""),
			Password: getEnv("BROKER_PASSWORD", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
