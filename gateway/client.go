package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	responseMaxSize = 4 << 20
	defaultTimeout  = 30 * time.Second
)

// Client is a typed HTTP client for the remote project-management gateway.
// The session token is an opaque cookie managed by the jar, so a single
// Client carries one authenticated session.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *log.Logger
}

// New creates a Client for the gateway at baseURL.
func New(baseURL string, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway url %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Client{
		base:   u,
		http:   &http.Client{Jar: jar, Timeout: defaultTimeout},
		logger: logger,
	}, nil
}

// HTTPClient exposes the underlying client so push-channel sources can share
// the session cookie jar.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// BaseURL returns the gateway base address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

type envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Data    T      `json:"data"`
}

// doJSON performs a request and decodes the enveloped payload. fallback is
// the user-facing message when the gateway provides none.
func doJSON[T any](ctx context.Context, c *Client, method, path string, body any, fallback string) (T, error) {
	var zero T
	metrics, ctx := newRequestMetrics(ctx, c.logger, method+" "+path)

	var reader io.Reader
	if body != nil {
		data, err := sonic.ConfigStd.Marshal(body)
		if err != nil {
			metrics.Log(0, err)
			return zero, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		metrics.Log(0, err)
		return zero, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.SetErrorStage("transport")
		metrics.Log(0, err)
		return zero, &Error{Message: fallback, cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, responseMaxSize))
	if err != nil {
		metrics.SetErrorStage("read_body")
		metrics.Log(resp.StatusCode, err)
		return zero, &Error{Status: resp.StatusCode, Message: fallback, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SetErrorStage("gateway")
		gerr := &Error{Status: resp.StatusCode, Message: errorMessage(data, fallback)}
		metrics.Log(resp.StatusCode, gerr)
		return zero, gerr
	}

	var env envelope[T]
	if len(data) > 0 {
		if err := sonic.ConfigStd.Unmarshal(data, &env); err != nil {
			metrics.SetErrorStage("decode_response")
			metrics.Log(resp.StatusCode, err)
			return zero, &Error{Status: resp.StatusCode, Message: fallback, cause: err}
		}
	}
	metrics.Log(resp.StatusCode, nil)
	return env.Data, nil
}
