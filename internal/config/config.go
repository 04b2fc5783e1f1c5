// Package config loads KeyMap configuration from the environment, with an
// optional YAML file overriding individual values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider selects the text-generation backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Addr string

	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Text generation
	LLMProvider     Provider
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	GenTimeout      time.Duration

	// Sessions
	SessionTTL time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level

	// CLI: server to talk to
	ServerURL string
}

// Load reads configuration from environment variables, then applies the
// YAML file named by KEYMAP_CONFIG (if any) on top.
func Load() (Config, error) {
	cfg := Config{
		Addr: getEnv("KEYMAP_ADDR", ":8090"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "keymap"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "app"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     Provider(strings.ToLower(getEnv("KEYMAP_LLM_PROVIDER", string(ProviderOllama)))),
		LLMModel:        getEnv("KEYMAP_LLM_MODEL", "llama3.2"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		GenTimeout:      parseDuration(getEnv("KEYMAP_GEN_TIMEOUT", "45s"), 45*time.Second),

		SessionTTL: parseDuration(getEnv("KEYMAP_SESSION_TTL", "168h"), 7*24*time.Hour),

		LogFile:  getEnv("KEYMAP_LOG_FILE", "/tmp/keymap.log"),
		LogLevel: parseLogLevel(getEnv("KEYMAP_LOG_LEVEL", "INFO")),

		ServerURL: getEnv("KEYMAP_SERVER_URL", "http://localhost:8090"),
	}

	if path := os.Getenv("KEYMAP_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	return cfg, nil
}

// fileConfig mirrors the YAML file layout. Zero values leave the
// environment-derived value in place.
type fileConfig struct {
	Addr string `yaml:"addr"`

	SurrealDB struct {
		URL       string `yaml:"url"`
		Namespace string `yaml:"namespace"`
		Database  string `yaml:"database"`
		User      string `yaml:"user"`
		Pass      string `yaml:"pass"`
		AuthLevel string `yaml:"auth_level"`
	} `yaml:"surrealdb"`

	LLM struct {
		Provider   string `yaml:"provider"`
		Model      string `yaml:"model"`
		OllamaHost string `yaml:"ollama_host"`
		GenTimeout string `yaml:"gen_timeout"`
	} `yaml:"llm"`

	SessionTTL string `yaml:"session_ttl"`
	LogFile    string `yaml:"log_file"`
	LogLevel   string `yaml:"log_level"`
	ServerURL  string `yaml:"server_url"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	setString(&cfg.Addr, fc.Addr)
	setString(&cfg.SurrealDBURL, fc.SurrealDB.URL)
	setString(&cfg.SurrealDBNamespace, fc.SurrealDB.Namespace)
	setString(&cfg.SurrealDBDatabase, fc.SurrealDB.Database)
	setString(&cfg.SurrealDBUser, fc.SurrealDB.User)
	setString(&cfg.SurrealDBPass, fc.SurrealDB.Pass)
	setString(&cfg.SurrealDBAuthLevel, fc.SurrealDB.AuthLevel)
	if fc.LLM.Provider != "" {
		cfg.LLMProvider = Provider(strings.ToLower(fc.LLM.Provider))
	}
	setString(&cfg.LLMModel, fc.LLM.Model)
	setString(&cfg.OllamaHost, fc.LLM.OllamaHost)
	if fc.LLM.GenTimeout != "" {
		cfg.GenTimeout = parseDuration(fc.LLM.GenTimeout, cfg.GenTimeout)
	}
	if fc.SessionTTL != "" {
		cfg.SessionTTL = parseDuration(fc.SessionTTL, cfg.SessionTTL)
	}
	setString(&cfg.LogFile, fc.LogFile)
	if fc.LogLevel != "" {
		cfg.LogLevel = parseLogLevel(fc.LogLevel)
	}
	setString(&cfg.ServerURL, fc.ServerURL)

	return nil
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
