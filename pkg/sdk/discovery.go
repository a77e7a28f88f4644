package sdk

import "strings"

// Mode tells how the client reaches the backend.
type Mode string

const (
	// ModeDirect targets a configured backend URL (cross-origin).
	ModeDirect Mode = "direct"
	// ModeProxy targets /api on the app's own origin; a reverse proxy
	// forwards to the real backend.
	ModeProxy Mode = "proxy"
)

// ProxyPrefix is the same-origin path the reverse proxy listens on.
const ProxyPrefix = "/api"

// DefaultOrigin is used in proxy mode when no origin is configured.
// It matches the default listen address of cmd/hk-proxy.
const DefaultOrigin = "http://127.0.0.1:8080"

// ResolveBaseURL picks the request base once, at client construction.
// A configured base URL wins; otherwise requests go to origin + /api.
func ResolveBaseURL(baseURL, origin string) (string, Mode) {
	if b := strings.TrimRight(strings.TrimSpace(baseURL), "/"); b != "" {
		return b, ModeDirect
	}

	o := strings.TrimRight(strings.TrimSpace(origin), "/")
	if o == "" {
		o = DefaultOrigin
	}
	return o + ProxyPrefix, ModeProxy
}
