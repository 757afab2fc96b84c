package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPort      = "8080"
	DefaultOllamaURL = "http://localhost:11434"
	DefaultModel     = "llama3.2"
)

// Config holds everything the relay, the chat page and the tools need.
// It is built once in main and handed to constructors.
type Config struct {
	Port          string
	OllamaURL     string
	DefaultModel  string
	OllamaTimeout time.Duration
	RelayURL      string
	GinMode       string
}

// Load reads .env (if present), an optional config.yml and the environment.
// Environment variables win over the file, the file wins over defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("ollama_url", DefaultOllamaURL)
	v.SetDefault("ollama_model", DefaultModel)
	v.SetDefault("ollama_timeout", time.Duration(0))
	v.SetDefault("relay_url", "")
	v.SetDefault("gin_mode", "debug")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Port:          strings.TrimPrefix(v.GetString("port"), ":"),
		OllamaURL:     strings.TrimRight(v.GetString("ollama_url"), "/"),
		DefaultModel:  strings.TrimSpace(v.GetString("ollama_model")),
		OllamaTimeout: v.GetDuration("ollama_timeout"),
		RelayURL:      strings.TrimRight(v.GetString("relay_url"), "/"),
		GinMode:       v.GetString("gin_mode"),
	}
	if cfg.RelayURL == "" {
		cfg.RelayURL = "http://localhost:" + cfg.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL must not be empty")
	}
	if !strings.HasPrefix(c.OllamaURL, "http://") && !strings.HasPrefix(c.OllamaURL, "https://") {
		return fmt.Errorf("OLLAMA_URL must be an http(s) URL, got %q", c.OllamaURL)
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("OLLAMA_MODEL must not be empty")
	}
	if c.OllamaTimeout < 0 {
		return fmt.Errorf("OLLAMA_TIMEOUT must not be negative")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	return nil
}

// Addr is the listen address for gin.
func (c *Config) Addr() string {
	return ":" + c.Port
}
