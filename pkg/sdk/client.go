// Package sdk is the client-side library for the housekeeping backend.
// It reaches the backend either directly or through a same-origin /api proxy,
// and signs every request with the host platform's launch data.
package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
)

// Options configures a Client.
type Options struct {
	// BaseURL enables direct mode when set.
	BaseURL string
	// Origin is the app's own origin, used in proxy mode.
	Origin string
	// Timeout bounds a whole request; zero means no limit.
	Timeout time.Duration

	Identity IdentityProvider
	Logger   *zap.Logger
	Observer RequestObserver

	// Transport replaces the HTTP round tripper, mostly for tests.
	Transport http.RoundTripper
}

// Client is the typed housekeeping API client.
// It implements the HousekeepingAPI interface and is safe for concurrent use.
type Client struct {
	http     *resty.Client
	identity IdentityProvider
	logger   *zap.Logger
	observer RequestObserver
	baseURL  string
	mode     Mode
}

// NewClient resolves the base URL and builds the transport.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL, mode := ResolveBaseURL(opts.BaseURL, opts.Origin)

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		// resty logs every failed attempt at Error; the failure is already
		// returned to the caller, so keep only its panics.
		SetLogger(logger.WithOptions(zap.IncreaseLevel(zapcore.DPanicLevel)).Sugar())
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}

	c := &Client{
		http:     rc,
		identity: opts.Identity,
		logger:   logger,
		observer: opts.Observer,
		baseURL:  baseURL,
		mode:     mode,
	}
	rc.OnBeforeRequest(c.attachInitData)

	logger.Info("Housekeeping client ready", zap.String("base_url", baseURL), zap.String("mode", string(mode)))
	return c
}

// BaseURL returns the resolved request base.
func (c *Client) BaseURL() string { return c.baseURL }

// Mode returns whether the client runs in direct or proxy mode.
func (c *Client) Mode() Mode { return c.mode }

// GetProfile fetches the signed-in user's profile.
func (c *Client) GetProfile(ctx context.Context) (schema.Profile, error) {
	const op = "get profile"
	var profile schema.Profile

	res, err := c.execute(ctx, op, http.MethodGet, EndpointProfile, nil, nil)
	if err != nil {
		return profile, err
	}
	if err := decode(op, "", res, &profile); err != nil {
		return schema.Profile{}, err
	}
	if err := schema.Validate(profile); err != nil {
		return schema.Profile{}, schemaError(op, err)
	}
	return profile, nil
}

// GetStatus fetches the status buckets in server order.
func (c *Client) GetStatus(ctx context.Context) ([]schema.RoomAttendantStatusCount, error) {
	return fetchList[schema.RoomAttendantStatusCount](ctx, c, "get status", http.MethodGet, EndpointStatus, nil, nil)
}

// SearchRooms lists the rooms between startRoom and endRoom. Both bounds
// are sent verbatim as path segments; the backend owns the range rules.
// No match is an empty slice, not an error.
func (c *Client) SearchRooms(ctx context.Context, startRoom, endRoom string) ([]schema.RoomSearchRecord, error) {
	if startRoom == "" || endRoom == "" {
		return nil, fmt.Errorf("search rooms: %w", ErrEmptyRoom)
	}
	params := map[string]string{"startRoom": startRoom, "endRoom": endRoom}
	return fetchList[schema.RoomSearchRecord](ctx, c, "search rooms", http.MethodGet, EndpointSearchRoom, params, nil)
}

// UpdateRoom sends a status change. The path segment is cmd.Room, so path
// and body always agree. The result may hold several rows (linked rooms).
func (c *Client) UpdateRoom(ctx context.Context, cmd schema.RoomUpdateCommand) ([]schema.RoomUpdateResult, error) {
	if cmd.Room == "" {
		return nil, fmt.Errorf("update room: %w", ErrEmptyRoom)
	}
	params := map[string]string{"room": cmd.Room}
	return fetchList[schema.RoomUpdateResult](ctx, c, "update room", http.MethodPut, EndpointRoomUpdate, params, cmd)
}

// attachInitData runs before every request. A missing or unreadable
// session never blocks the request.
func (c *Client) attachInitData(_ *resty.Client, req *resty.Request) error {
	token, err := c.readToken()
	if err != nil {
		c.logger.Warn("Could not read init data, sending request without it",
			zap.String("url", req.URL),
			zap.Error(err),
		)
		if c.observer != nil {
			c.observer.ObserveAuthDecorationFailure()
		}
		return nil
	}
	if token != "" {
		req.SetHeader(HeaderInitData, token)
	}
	return nil
}

func (c *Client) readToken() (token string, err error) {
	if c.identity == nil {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			token, err = "", fmt.Errorf("identity provider panicked: %v", r)
		}
	}()
	return c.identity.TryGetToken()
}

type result struct {
	status int
	body   []byte
}

func (c *Client) execute(ctx context.Context, op, method, path string, params map[string]string, body any) (result, error) {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetPathParams(params)
	}
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, time.Since(start))
	}

	if err != nil {
		return result{}, &TransportError{Op: op, StatusCode: status, Message: err.Error(), Err: err}
	}
	if !resp.IsSuccess() {
		return result{}, &TransportError{Op: op, StatusCode: status, Message: errorMessage(resp)}
	}

	c.logger.Debug("Backend call succeeded",
		zap.String("op", op),
		zap.Int("status_code", status),
		zap.Duration("elapsed", resp.Time()),
	)
	return result{status: status, body: resp.Body()}, nil
}

func fetchList[E any](ctx context.Context, c *Client, op, method, path string, params map[string]string, body any) ([]E, error) {
	res, err := c.execute(ctx, op, method, path, params, body)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(res.body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaError{Op: op, Reason: "expected JSON array, got JSON " + typeErr.Value, Err: err}
		}
		return nil, &TransportError{Op: op, StatusCode: res.status, Message: "malformed response body", Err: err}
	}

	// JSON null decodes to an empty, non-nil list.
	items := make([]E, len(raw))
	for i := range raw {
		if err := decode(op, fmt.Sprintf("[%d]", i), result{status: res.status, body: raw[i]}, &items[i]); err != nil {
			return nil, err
		}
	}
	if err := schema.ValidateList(items); err != nil {
		return nil, schemaError(op, err)
	}
	return items, nil
}

// decode separates bodies that are not JSON (transport failure) from JSON
// of the wrong shape (schema mismatch). prefix locates res.body inside the
// whole payload and is prepended to the reported field.
func decode(op, prefix string, res result, out any) error {
	err := json.Unmarshal(res.body, out)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &SchemaError{
			Op:     op,
			Field:  joinField(prefix, typeErr.Field),
			Reason: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
			Err:    err,
		}
	}
	return &TransportError{Op: op, StatusCode: res.status, Message: "malformed response body", Err: err}
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	}
	return prefix + "." + field
}

func schemaError(op string, err error) error {
	var v *schema.ViolationError
	if errors.As(err, &v) {
		return &SchemaError{Op: op, Field: v.Field, Reason: fmt.Sprintf("violates %q (got %v)", v.Rule, v.Value), Err: err}
	}
	return &SchemaError{Op: op, Reason: err.Error(), Err: err}
}

// errorMessage extracts the backend's message from an error body.
func errorMessage(resp *resty.Response) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	text := truncate(strings.TrimSpace(string(resp.Body())), maxErrorMessage)
	if text == "" {
		return http.StatusText(resp.StatusCode())
	}
	return text
}

const maxErrorMessage = 512

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
