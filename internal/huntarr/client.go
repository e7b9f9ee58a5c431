package huntarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ErrTimeout is returned when a request is aborted by the client-side timeout.
var ErrTimeout = errors.New("request timed out")

// ErrSaveRejected is returned when the server answers a save with success=false.
var ErrSaveRejected = errors.New("server rejected save")

// NoTimeout disables the per-request abort timeout.
const NoTimeout time.Duration = -1

// API defines the Huntarr endpoints huntsched consumes.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	LoadSchedules(ctx context.Context) (SchedulePayload, error)
	SaveSchedules(ctx context.Context, payload SchedulePayload) error
	FetchSettings(ctx context.Context) (Settings, error)
	FetchMovieHuntInstances(ctx context.Context) ([]HuntInstance, error)
	FetchTVHuntInstances(ctx context.Context) ([]HuntInstance, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the Huntarr HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	timeout   time.Duration
}

const (
	defaultServerURL = "http://127.0.0.1:9705"
	defaultUserAgent = "huntsched/0.1"
	defaultTimeout   = 10 * time.Second
)

// NewClient builds a Client for serverURL. basePath is prefixed to every
// endpoint (for reverse-proxied installs) and timeout is the abort timeout
// applied to schedule calls; zero uses the default.
func NewClient(serverURL, basePath string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(serverURL, basePath)
	if err != nil {
		return nil, err
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		timeout:   timeout,
	}, nil
}

// BaseURL returns the resolved server root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// LoadSchedules fetches every schedule bucket.
func (c *Client) LoadSchedules(ctx context.Context) (SchedulePayload, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload SchedulePayload
	if err := c.do(ctx, c.timeout, http.MethodGet, "/api/scheduler/load", nil, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = SchedulePayload{}
	}
	return payload, nil
}

// SaveSchedules replaces the full schedule set on the server.
func (c *Client) SaveSchedules(ctx context.Context, payload SchedulePayload) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var result SaveResponse
	if err := c.do(ctx, c.timeout, http.MethodPost, "/api/scheduler/save", payload, &result); err != nil {
		return err
	}
	if result.Success != nil && !*result.Success {
		if msg := strings.TrimSpace(result.Message); msg != "" {
			return fmt.Errorf("%w: %s", ErrSaveRejected, msg)
		}
		return ErrSaveRejected
	}
	return nil
}

// FetchSettings retrieves the standard app settings and general options.
// Directory fetches carry no abort timeout.
func (c *Client) FetchSettings(ctx context.Context) (Settings, error) {
	if c == nil {
		return Settings{}, fmt.Errorf("client is nil")
	}
	var raw map[string]json.RawMessage
	if err := c.do(ctx, NoTimeout, http.MethodGet, "/api/settings", nil, &raw); err != nil {
		return Settings{}, err
	}
	return decodeSettings(raw)
}

// FetchMovieHuntInstances lists Movie Hunt instances.
func (c *Client) FetchMovieHuntInstances(ctx context.Context) ([]HuntInstance, error) {
	return c.fetchHuntInstances(ctx, "/api/movie-hunt/instances")
}

// FetchTVHuntInstances lists TV Hunt instances.
func (c *Client) FetchTVHuntInstances(ctx context.Context) ([]HuntInstance, error) {
	return c.fetchHuntInstances(ctx, "/api/tv-hunt/instances")
}

func (c *Client) fetchHuntInstances(ctx context.Context, endpoint string) ([]HuntInstance, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload HuntInstanceList
	if err := c.do(ctx, NoTimeout, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	for i, inst := range payload.Instances {
		if inst.ID == 0 {
			return nil, fmt.Errorf("%s instances[%d]: %w: id", endpoint, i, ErrMalformed)
		}
	}
	return payload.Instances, nil
}

func (c *Client) do(ctx context.Context, timeout time.Duration, method, endpoint string, body, dest any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rel := &url.URL{Path: path.Join(c.baseURL.Path, endpoint)}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("api %s: %w", endpoint, ErrTimeout)
		}
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", endpoint, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("api %s: %w", endpoint, ErrTimeout)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(serverURL, basePath string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse server url %q: missing host", serverURL)
	}
	prefix := strings.Trim(strings.TrimSpace(basePath), "/")
	if prefix == "" {
		prefix = strings.Trim(u.Path, "/")
	}
	u.Path = ""
	if prefix != "" {
		u.Path = "/" + prefix
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
