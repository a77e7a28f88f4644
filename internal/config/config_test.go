package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/celerix-dev/celerix-hk/pkg/sdk"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HK_API_BASE_URL", "HK_ORIGIN", "HK_HTTP_TIMEOUT", "HK_PROXY_PORT",
		"HK_PROXY_TARGET", "HK_PROXY_INSECURE", "TG_INIT_DATA", "TG_BOT_TOKEN", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "8080", cfg.ProxyPort)
	assert.True(t, cfg.ProxyInsecure)

	url, mode := cfg.ResolveBaseURL()
	assert.Equal(t, sdk.ModeProxy, mode)
	assert.Equal(t, sdk.DefaultOrigin+"/api", url)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HK_API_BASE_URL", "https://hk.example.com/")
	t.Setenv("HK_HTTP_TIMEOUT", "5")
	t.Setenv("HK_PROXY_INSECURE", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.ProxyInsecure)
	assert.Equal(t, "debug", cfg.LogLevel)

	url, mode := cfg.ResolveBaseURL()
	assert.Equal(t, sdk.ModeDirect, mode)
	assert.Equal(t, "https://hk.example.com", url)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("HK_HTTP_TIMEOUT", "soon")
	assert.Equal(t, 30*time.Second, Load().HTTPTimeout)

	t.Setenv("HK_HTTP_TIMEOUT", "-1")
	assert.Equal(t, 30*time.Second, Load().HTTPTimeout)
}
