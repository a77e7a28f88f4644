package initdata

import (
	"os"
	"strings"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
)

// Provider implements sdk.IdentityProvider over a source that is consulted on
// every call, so a session that appears or changes later is picked up.
type Provider struct {
	source func() (string, error)
}

// NewProvider wraps a raw launch data source.
func NewProvider(source func() (string, error)) *Provider {
	return &Provider{source: source}
}

// Static serves a fixed raw string. An empty string means no session.
func Static(raw string) *Provider {
	return NewProvider(func() (string, error) { return raw, nil })
}

// FromEnv reads the named environment variable on every call.
func FromEnv(key string) *Provider {
	return NewProvider(func() (string, error) { return os.Getenv(key), nil })
}

// TryGetToken returns the raw launch data exactly as the source holds it;
// the signature covers those bytes. A blank source means no session.
func (p *Provider) TryGetToken() (string, error) {
	if p == nil || p.source == nil {
		return "", nil
	}
	raw, err := p.source()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return raw, nil
}

// TryGetSession decodes the current launch data. It returns nil without an
// error when the app runs outside the host.
func (p *Provider) TryGetSession() (*schema.Session, error) {
	raw, err := p.TryGetToken()
	if err != nil || raw == "" {
		return nil, err
	}
	return Parse(raw)
}
