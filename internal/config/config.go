package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/celerix-dev/celerix-hk/pkg/sdk"
)

// Config holds all configuration for the client and the dev proxy.
type Config struct {
	// Backend
	APIBaseURL  string
	Origin      string
	HTTPTimeout time.Duration

	// Identity
	InitData string
	BotToken string

	// Dev proxy
	ProxyPort     string
	ProxyTarget   string
	ProxyInsecure bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:  getEnv("HK_API_BASE_URL", ""),
		Origin:      getEnv("HK_ORIGIN", sdk.DefaultOrigin),
		HTTPTimeout: time.Duration(getEnvAsInt("HK_HTTP_TIMEOUT", 30)) * time.Second,

		InitData: getEnv("TG_INIT_DATA", ""),
		BotToken: getEnv("TG_BOT_TOKEN", ""),

		ProxyPort:     getEnv("HK_PROXY_PORT", "8080"),
		ProxyTarget:   getEnv("HK_PROXY_TARGET", ""),
		ProxyInsecure: getEnvAsBool("HK_PROXY_INSECURE", true),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// ResolveBaseURL picks the backend base URL and request mode.
func (c *Config) ResolveBaseURL() (string, sdk.Mode) {
	return sdk.ResolveBaseURL(c.APIBaseURL, c.Origin)
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
