// Package fetch provides the HTTP client used to retrieve pages from
// www.psp.cz. Retries and backoff for transient failures live here; callers
// only see terminal success or terminal failure. Legacy pages are served in
// windows-1250, so HTML responses are decoded to UTF-8 before parsing.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"github.com/parlwatch/pspcrawl/internal/logger"
)

// ErrUnexpectedStatus is returned for any terminal non-200 response.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Default client settings.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultRetryCount   = 3
	DefaultRetryWait    = 2 * time.Second
	DefaultRetryMaxWait = 20 * time.Second
	DefaultUserAgent    = "pspcrawl/1.0"
)

// Config holds fetch client configuration.
type Config struct {
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryCount   int           `mapstructure:"retry_count"`
	RetryWait    time.Duration `mapstructure:"retry_wait"`
	RetryMaxWait time.Duration `mapstructure:"retry_max_wait"`
}

// Client fetches pages with retry and charset handling.
type Client struct {
	http *resty.Client
	log  logger.Interface
}

// New creates a fetch client from the given configuration.
func New(cfg Config, log logger.Interface) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = DefaultRetryCount
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = DefaultRetryWait
	}
	if cfg.RetryMaxWait <= 0 {
		cfg.RetryMaxWait = DefaultRetryMaxWait
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Client{http: httpClient, log: log}
}

// GetHTML fetches the given URL and returns the body as UTF-8. The response
// charset is taken from the Content-Type header or a meta tag, falling back
// to charset auto-detection.
func (c *Client) GetHTML(ctx context.Context, url string) ([]byte, error) {
	body, contentType, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset of %s: %w", url, err)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read decoded body of %s: %w", url, err)
	}

	return decoded, nil
}

// GetRaw fetches the given URL and returns the body bytes untouched.
// Used for binary content such as portrait images.
func (c *Client) GetRaw(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.get(ctx, url)
	return body, err
}

func (c *Client) get(ctx context.Context, url string) (body []byte, contentType string, err error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}

	if resp.StatusCode() != 200 {
		return nil, "", fmt.Errorf("fetch %s: %w: %d", url, ErrUnexpectedStatus, resp.StatusCode())
	}

	c.log.Debug("Fetched page",
		"url", url,
		"status", resp.StatusCode(),
		"bytes", len(resp.Body()),
		"duration", resp.Time(),
	)

	return resp.Body(), resp.Header().Get("Content-Type"), nil
}
