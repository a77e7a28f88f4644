// Package proxy is the same-origin development proxy. It serves /api/* by
// forwarding to the real backend, so the Mini App can run in proxy mode
// without CORS access to the backend.
package proxy

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/celerix-dev/celerix-hk/internal/metrics"
	"github.com/celerix-dev/celerix-hk/pkg/sdk"
)

// Options configures a Proxy.
type Options struct {
	// Target is the backend base URL, e.g. https://hk.example.com.
	Target string
	// Insecure skips TLS verification toward the target.
	Insecure bool

	Logger  *zap.Logger
	Metrics *metrics.ProxyMetrics
}

// Proxy forwards /api/* to the target with the prefix stripped and the
// Host header rewritten. Every other header, including the init data
// header, is passed through untouched.
type Proxy struct {
	target  *url.URL
	rp      *httputil.ReverseProxy
	logger  *zap.Logger
	metrics *metrics.ProxyMetrics
}

// New validates the target and builds the proxy.
func New(opts Options) (*Proxy, error) {
	if strings.TrimSpace(opts.Target) == "" {
		return nil, fmt.Errorf("proxy target is required")
	}
	target, err := url.Parse(strings.TrimRight(opts.Target, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("invalid proxy target %q: scheme must be http or https", opts.Target)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // dev backends use self-signed certs
	}

	p := &Proxy{target: target, logger: logger, metrics: opts.Metrics}
	p.rp = &httputil.ReverseProxy{
		Rewrite:      p.rewrite,
		Transport:    transport,
		ErrorHandler: p.upstreamError,
	}
	return p, nil
}

// Target returns the backend base URL.
func (p *Proxy) Target() string { return p.target.String() }

func (p *Proxy) rewrite(r *httputil.ProxyRequest) {
	r.Out.URL.Path = stripPrefix(r.In.URL.Path)
	r.Out.URL.RawPath = stripPrefix(r.In.URL.RawPath)
	r.SetURL(p.target)
	r.SetXForwarded()
}

func stripPrefix(path string) string {
	if path == "" {
		return ""
	}
	path = strings.TrimPrefix(path, sdk.ProxyPrefix)
	if path == "" {
		return "/"
	}
	return path
}

func (p *Proxy) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("Upstream request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	if p.metrics != nil {
		p.metrics.UpstreamErrors.Inc()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	fmt.Fprintf(w, `{"error":%q}`, "backend unreachable")
}

// Forward is the gin handler for /api/*path.
func (p *Proxy) Forward(c *gin.Context) {
	start := time.Now()
	p.rp.ServeHTTP(c.Writer, c.Request)
	if p.metrics != nil {
		p.metrics.Observe(c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
