package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "pdfcheck.yaml"

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Configuration validation errors.
var (
	ErrUnknownProvider    = errors.New("provider must be one of: gemini, openai, ollama")
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
	ErrInvalidTimeout     = errors.New("timeout_sec must be at least 1")
	ErrInvalidLogLevel    = errors.New("log_level must be one of: debug, info, warn, error")
	ErrMissingAPIKey      = errors.New("API key is not set")
)

// Config holds everything a run needs. APIKey is never read from the
// YAML file.
type Config struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
	OutputDir   string  `yaml:"output_dir"`
	LogLevel    string  `yaml:"log_level"`

	APIKey string `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		Provider:    ProviderGemini,
		Temperature: 0.3,
		TimeoutSec:  60,
		OutputDir:   ".",
		LogLevel:    "info",
	}
}

// loadConfig layers defaults, the YAML file, .env and the process
// environment. An explicit path must exist; the default file is optional.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if err := loadConfigFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using system environment variables")
	}
	applyEnv(&cfg)

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("PDFCHECK_PROVIDER"); ok {
		cfg.Provider = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("PDFCHECK_MODEL"); ok {
		cfg.Model = v
	}
	if v, ok := os.LookupEnv("PDFCHECK_BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv("PDFCHECK_OUTPUT_DIR"); ok {
		cfg.OutputDir = v
	}
	if v, ok := os.LookupEnv("PDFCHECK_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("PDFCHECK_TIMEOUT_SEC"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSec = n
		}
	}
}

// resolveAPIKey reads the key for the final provider. It runs after flag
// overrides so that -provider picks the matching variable.
func (c *Config) resolveAPIKey() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(apiKeyEnv(c.Provider))
	}
}

// apiKeyEnv names the environment variable holding the provider key.
func apiKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderOllama:
		return "OLLAMA_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// needsAPIKey reports whether the provider refuses to run without a key.
func needsAPIKey(provider string) bool {
	return provider != ProviderOllama
}

// Validate checks the settings. withAI also requires a usable key.
func (c *Config) Validate(withAI bool) error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownProvider, c.Provider)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return ErrInvalidTemperature
	}

	if c.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	if withAI && needsAPIKey(c.Provider) && c.APIKey == "" {
		return fmt.Errorf("%w: set %s", ErrMissingAPIKey, apiKeyEnv(c.Provider))
	}

	return nil
}
