package config

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// StoreConfig configures the store service.
type StoreConfig struct {
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	BasePath string `yaml:"base_path"`
	APIKey   string `yaml:"api_key"`
}

// GatewayConfig configures the relay gateway.
type GatewayConfig struct {
	Port           string `yaml:"port"`
	StoreURL       string `yaml:"store_url"`
	StoreAPIKey    string `yaml:"store_api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// S3Config enables the S3-backed storage path mode. When disabled the
// store derives local sharded paths under StoreConfig.BasePath.
type S3Config struct {
	Enabled       bool   `yaml:"enabled"`
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PresignExpiry int    `yaml:"presign_expiry_minutes"`
}

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Gateway GatewayConfig `yaml:"gateway"`
	S3      S3Config      `yaml:"s3"`
}

// Load reads config.yaml (or $CONFIG_PATH) and applies environment
// overrides. A missing or unparsable file falls back to defaults.
func Load() *Config {
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	config := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.WithError(err).Warn("no config file, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		log.WithError(err).Warn("failed to parse config file, using defaults")
		config = defaultConfig()
	}

	applyEnvOverrides(config)
	return config
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("STORE_PORT"); v != "" {
		c.Store.Port = v
	}
	if v := os.Getenv("STORE_DATABASE"); v != "" {
		c.Store.Database = v
	}
	if v := os.Getenv("STORE_API_KEY"); v != "" {
		c.Store.APIKey = v
		c.Gateway.StoreAPIKey = v
	}
	if v := os.Getenv("GATEWAY_PORT"); v != "" {
		c.Gateway.Port = v
	}
	if v := os.Getenv("STORE_URL"); v != "" {
		c.Gateway.StoreURL = v
	}
	if v := os.Getenv("S3_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.S3.Enabled = enabled
		}
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.S3.SecretKey = v
	}
}

func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Port:     "8080",
			Database: "./store.db",
			BasePath: "./storage",
		},
		Gateway: GatewayConfig{
			Port:           "8081",
			StoreURL:       "http://localhost:8080",
			TimeoutSeconds: 10,
		},
		S3: S3Config{
			Region:        "us-east-1",
			Prefix:        "files",
			PresignExpiry: 15,
		},
	}
}
