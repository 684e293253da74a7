// Package supabase talks to the Supabase Storage REST API with a service
// role key. Objects are uploaded into a single bucket and served through
// the public object URL.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("supabase: storage not configured")

// Config connection settings for a Supabase project.
type Config struct {
	URL        string
	ServiceKey string
	Bucket     string
	Timeout    time.Duration
}

func (c *Config) normalize() {
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Client uploads and deletes objects in one storage bucket.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg Config, opts ...Option) *Client {
	cfg.normalize()
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether project URL and service key are present.
func (c *Client) Configured() bool {
	return c.cfg.URL != "" && c.cfg.ServiceKey != "" && c.cfg.Bucket != ""
}

// Upload stores the object under objectPath and returns its public URL.
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.cfg.URL, c.cfg.Bucket, escapePath(objectPath))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("x-upsert", "false")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("supabase: upload %s: %w", objectPath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("supabase: upload %s: %s", objectPath, readAPIError(resp.Body, resp.StatusCode))
	}
	return c.PublicURL(objectPath), nil
}

// Delete removes the object. target may be an object path or a full
// public URL previously returned by Upload.
func (c *Client) Delete(ctx context.Context, target string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	objectPath := c.ObjectPath(target)
	if objectPath == "" {
		return fmt.Errorf("supabase: cannot resolve object path from %q", target)
	}
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.cfg.URL, c.cfg.Bucket, escapePath(objectPath))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: delete %s: %w", objectPath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("supabase: delete %s: %s", objectPath, readAPIError(resp.Body, resp.StatusCode))
	}
	return nil
}

// PublicURL builds the public object URL for a stored path.
func (c *Client) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.cfg.URL, c.cfg.Bucket, escapePath(objectPath))
}

// ObjectPath extracts the bucket-relative path from a public URL. A bare
// path is returned unchanged.
func (c *Client) ObjectPath(target string) string {
	marker := c.cfg.Bucket + "/"
	if idx := strings.Index(target, marker); idx >= 0 {
		return strings.TrimPrefix(target[idx+len(marker):], "/")
	}
	if strings.Contains(target, "://") {
		return ""
	}
	return strings.TrimPrefix(target, "/")
}

func escapePath(objectPath string) string {
	parts := strings.Split(strings.TrimPrefix(objectPath, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return path.Join(parts...)
}

func readAPIError(body io.Reader, statusCode int) string {
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(body, 1<<16))
	if err := json.Unmarshal(raw, &apiErr); err == nil {
		if apiErr.Message != "" {
			return fmt.Sprintf("status %d: %s", statusCode, apiErr.Message)
		}
		if apiErr.Error != "" {
			return fmt.Sprintf("status %d: %s", statusCode, apiErr.Error)
		}
	}
	return fmt.Sprintf("status %d", statusCode)
}
