// Package config reads settings for both binaries from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the front-end server's configuration.
type Config struct {
	Addr        string
	APIURL      string
	User        string // own address, left out of reply-all
	OpenBrowser bool
	LogLevel    slog.Level
}

// MailAPIConfig is the development mail API's configuration.
type MailAPIConfig struct {
	Addr     string
	DBPath   string
	User     string
	SeedPath string
	LogLevel slog.Level
}

// LoadDotEnv loads .env without overriding variables already set. A missing
// file is not an error.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func Load() (*Config, error) {
	cfg := &Config{
		Addr:        getEnvString("MAILPANE_ADDR", "127.0.0.1:3030"),
		APIURL:      getEnvString("MAILPANE_API_URL", "http://127.0.0.1:8000"),
		User:        getEnvString("MAILPANE_USER", ""),
		OpenBrowser: getEnvBool("MAILPANE_OPEN_BROWSER", false),
		LogLevel:    getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("MAILPANE_ADDR is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("MAILPANE_API_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("MAILPANE_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	return nil
}

// BrowserURL is the address a local browser should open.
func (c *Config) BrowserURL() string {
	host := c.Addr
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	return "http://" + host + "/"
}

func LoadMailAPI() (*MailAPIConfig, error) {
	dbPath, err := expandHome(getEnvString("MAILAPI_DB_PATH", "~/.config/mailpane/mailapi.db"))
	if err != nil {
		return nil, err
	}
	seed, err := expandHome(getEnvString("MAILAPI_SEED", ""))
	if err != nil {
		return nil, err
	}
	cfg := &MailAPIConfig{
		Addr:     getEnvString("MAILAPI_ADDR", "127.0.0.1:8000"),
		DBPath:   dbPath,
		User:     strings.ToLower(getEnvString("MAILAPI_USER", "")),
		SeedPath: seed,
		LogLevel: getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *MailAPIConfig) Validate() error {
	if c.User == "" {
		return fmt.Errorf("MAILAPI_USER is required")
	}
	if c.Addr == "" {
		return fmt.Errorf("MAILAPI_ADDR is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("MAILAPI_DB_PATH is required")
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

func getEnvString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvLevel accepts debug, info, warn or error in any case.
func getEnvLevel(key string, fallback slog.Level) slog.Level {
	if value, ok := os.LookupEnv(key); ok {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err == nil {
			return level
		}
	}
	return fallback
}
