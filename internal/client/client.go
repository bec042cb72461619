package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/passkeep/passkeep-go/internal/model"
)

// APIError is a non-2xx response from the passkeep API.
type APIError struct {
	Status  int
	Message string
	Fields  model.FieldErrors
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return e.Message
}

// Client calls the passkeep API. Its cookie jar holds the session and the
// cookie storage tier the same way a browser would.
type Client struct {
	baseURL string
	base    *url.URL
	http    *http.Client
	cookies *cookieFile
}

// Option configures a Client.
type Option func(*options)

type options struct {
	cookieFile string
}

// WithCookieFile keeps cookies that carry an expiry in path, so the cookie
// tier outlives the process. An empty path keeps cookies in memory.
func WithCookieFile(path string) Option {
	return func(o *options) { o.cookieFile = path }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: baseURL,
		base:    base,
		http:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}
	if o.cookieFile != "" {
		f, err := openCookieFile(o.cookieFile)
		if err != nil {
			return nil, err
		}
		f.restore(jar, base)
		c.cookies = f
	}
	return c, nil
}

// Generate requests a password.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	var resp model.GenerateResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/generate", req, &resp)
	return resp, err
}

// ListServices returns the stored services matching query.
func (c *Client) ListServices(ctx context.Context, query string) ([]model.StoredService, error) {
	path := "/api/v1/services"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var services []model.StoredService
	err := c.do(ctx, http.MethodGet, path, nil, &services)
	return services, err
}

// AddService stores a new service and returns the updated list.
func (c *Client) AddService(ctx context.Context, name, password string) ([]model.StoredService, error) {
	var services []model.StoredService
	err := c.do(ctx, http.MethodPost, "/api/v1/services",
		model.CreateServiceRequest{ServiceName: name, ServicePassword: password}, &services)
	return services, err
}

// UpdateService replaces a stored password and returns the updated list.
func (c *Client) UpdateService(ctx context.Context, name, password string) ([]model.StoredService, error) {
	var services []model.StoredService
	err := c.do(ctx, http.MethodPut, "/api/v1/services/"+url.PathEscape(name),
		model.UpdateServiceRequest{ServicePassword: password}, &services)
	return services, err
}

// DeleteService removes a service and returns the remaining list.
func (c *Client) DeleteService(ctx context.Context, name string) ([]model.StoredService, error) {
	var services []model.StoredService
	err := c.do(ctx, http.MethodDelete, "/api/v1/services/"+url.PathEscape(name), nil, &services)
	return services, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if c.cookies != nil {
		if err := c.cookies.record(c.base, resp.Cookies()); err != nil {
			slog.Warn("saving cookies failed", "error", err)
		}
	}

	if resp.StatusCode >= 300 {
		var errResp model.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &APIError{Status: resp.StatusCode, Message: errResp.Error, Fields: errResp.Fields}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
