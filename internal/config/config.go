package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// GitHub API configuration
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Rule table configuration
	Rules RulesConfig `yaml:"rules" mapstructure:"rules"`
}

type GitHubConfig struct {
	Token          string        `yaml:"token" mapstructure:"token"`
	APIBaseURL     string        `yaml:"api_base_url" mapstructure:"api_base_url"`
	RateLimit      float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	MaxConcurrent  int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxFileBytes   int64         `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
}

type RulesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			RateLimit:      5, // unauthenticated quota is small; stay polite
			MaxConcurrent:  8,
			RequestTimeout: 15 * time.Second,
			MaxFileBytes:   512 * 1024,
		},
		Rules: RulesConfig{
			Path: "rules.yaml",
		},
	}
}

// Load loads configuration from file, environment, and defaults, in
// increasing order of precedence (env wins).
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("rules", cfg.Rules)

	v.SetEnvPrefix("REPOSCOPE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("reposcope")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".reposcope"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rps, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			cfg.GitHub.RateLimit = rps
		}
	}
	if baseURL := os.Getenv("GITHUB_API_BASE_URL"); baseURL != "" {
		cfg.GitHub.APIBaseURL = baseURL
	}
	if rulesPath := os.Getenv("REPOSCOPE_RULES"); rulesPath != "" {
		cfg.Rules.Path = rulesPath
	}
}
