package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds client parameters for connecting to a modeling server.
// Zero values mean "unspecified" and will be replaced by defaults.
type Config struct {
	ServerURL      string `json:"server_url" yaml:"server_url" toml:"server_url" env:"MDPROXY_SERVER_URL"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds" env:"MDPROXY_TIMEOUT_SECONDS"`
	LogLevel       string `json:"log_level" yaml:"log_level" toml:"log_level" env:"MDPROXY_LOG_LEVEL"`
}

// Defaults returns the built-in client configuration.
func Defaults() Config {
	return Config{
		ServerURL:      "http://127.0.0.1:8000",
		TimeoutSeconds: 30,
		LogLevel:       "info",
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv overlays MDPROXY_* environment variables onto cfg. Unset
// variables leave the corresponding field untouched.
func FromEnv(cfg Config) (Config, error) {
	var env Config
	if err := envdecode.Decode(&env); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return cfg, err
	}
	return Merge(cfg, env), nil
}

// Merge overlays every set field of over onto base.
func Merge(base, over Config) Config {
	out := base
	if over.ServerURL != "" {
		out.ServerURL = over.ServerURL
	}
	if over.TimeoutSeconds != 0 {
		out.TimeoutSeconds = over.TimeoutSeconds
	}
	if over.LogLevel != "" {
		out.LogLevel = over.LogLevel
	}
	return out
}
