package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config carries everything the binaries need. Values come from the
// environment with an optional YAML overlay (CONFIG_FILE, default
// config.yaml when present).
type Config struct {
	ServerName    string        `yaml:"server_name"`
	ServerVersion string        `yaml:"server_version"`
	DBPath        string        `yaml:"db_path"`
	HTTPAddr      string        `yaml:"http_addr"`
	HTTPToken     string        `yaml:"-"`
	RedisURL      string        `yaml:"-"`
	AMQPURL       string        `yaml:"-"`
	CacheTTL      time.Duration `yaml:"-"`
	CacheTTLRaw   string        `yaml:"cache_ttl"`
	LogLevel      string        `yaml:"log_level"`
}

// Load builds the process configuration. Environment variables win over
// the YAML file; secrets (tokens, URLs) are env-only.
func Load() (Config, error) {
	LoadEnv(".env")

	cfg := Config{
		ServerName:    "ipl-mcp-server",
		ServerVersion: "1.0.0",
		DBPath:        "ipl.db",
		HTTPAddr:      ":8080",
		CacheTTL:      5 * time.Minute,
		LogLevel:      "info",
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if cfg.CacheTTLRaw != "" {
		d, err := time.ParseDuration(cfg.CacheTTLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid cache_ttl %q: %w", cfg.CacheTTLRaw, err)
		}
		cfg.CacheTTL = d
	}

	applyEnv(&cfg.ServerName, "MCP_SERVER_NAME")
	applyEnv(&cfg.ServerVersion, "MCP_SERVER_VERSION")
	applyEnv(&cfg.DBPath, "IPL_DB_PATH")
	applyEnv(&cfg.HTTPAddr, "MCP_HTTP_ADDR")
	applyEnv(&cfg.HTTPToken, "MCP_HTTP_TOKEN")
	applyEnv(&cfg.RedisURL, "REDIS_URL")
	applyEnv(&cfg.AMQPURL, "AMQP_URL")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CACHE_TTL %q: %w", raw, err)
		}
		cfg.CacheTTL = d
	}

	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// LoadEnv pulls secrets from AWS Secrets Manager (if configured) and then
// loads local .env files. This lets containers source secrets securely
// while still supporting local development.
func LoadEnv(defaultEnvPath string) {
	if err := loadAWSSecretsIntoEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Skipping AWS Secrets Manager load: %v\n", err)
	}
	loadDotEnv(defaultEnvPath)
}

func loadDotEnv(defaultEnvPath string) {
	envFile := os.Getenv("ENV_FILE_PATH")
	if envFile == "" {
		envFile = defaultEnvPath
	}

	if err := godotenv.Load(envFile); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(); err != nil {
			// Don't log if running in K8s/Docker where env is injected
			if os.Getenv("KUBERNETES_SERVICE_HOST") == "" {
				fmt.Fprintf(os.Stderr, "Note: .env file not found at %s. Using system environment variables.\n", envFile)
			}
		}
	}
}

// NewLogger builds the process logger. Output goes to stderr: in stdio
// mode stdout carries the protocol and must stay clean.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
