package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/glowmart/glowmart-api/internal/logger"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL  = "https://apiv2.shiprocket.in/v1/external"
	defaultTimeout  = 15 * time.Second
	defaultTokenTTL = 240 * time.Hour // carrier tokens stay valid 10 days
	defaultRetryMax = 3
)

// Config carrier client settings
type Config struct {
	BaseURL    string
	Email      string
	Password   string
	Timeout    time.Duration
	TokenTTL   time.Duration
	RetryMax   int
	RetryDelay time.Duration
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.RetryMax <= 0 {
		c.RetryMax = defaultRetryMax
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 500 * time.Millisecond
	}
}

// Client Shiprocket API client holding the bearer token session
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Option customizes the client
type Option func(*Client)

// WithHTTPClient overrides the HTTP transport
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithNowFunc overrides the clock
func WithNowFunc(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a carrier client
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.normalize()
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether credentials are present
func (c *Client) Configured() bool {
	return c.cfg.Email != "" && c.cfg.Password != ""
}

// token returns the cached bearer token, re-authenticating only when the
// session is missing or past its expiry
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	var auth authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", authRequest{
		Email:    c.cfg.Email,
		Password: c.cfg.Password,
	}, "", &auth); err != nil {
		logger.Errorw("shiprocket_auth_failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if auth.Token == "" {
		return "", ErrAuthFailed
	}

	c.token = auth.Token
	c.tokenExpiry = c.now().Add(c.cfg.TokenTTL)
	logger.Infow("shiprocket_authenticated", "token_expiry", c.tokenExpiry)
	return c.token, nil
}

// invalidateToken drops the session after the carrier rejects it
func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

// CreateOrder registers an adhoc order with the carrier
func (c *Client) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.call(ctx, http.MethodPost, "/orders/create/adhoc", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRecommendedCouriers lists serviceable couriers for an existing shipment
func (c *Client) GetRecommendedCouriers(ctx context.Context, shipmentID string) (*ServiceabilityResponse, error) {
	path := "/courier/serviceability?shipment_id=" + url.QueryEscape(shipmentID)
	var resp ServiceabilityResponse
	if err := c.callWithRetry(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateAWB assigns a courier and AWB to a shipment. courierID 0 lets
// the carrier pick.
func (c *Client) GenerateAWB(ctx context.Context, shipmentID string, courierID int) (*AWBResponse, error) {
	id, err := parseShipmentID(shipmentID)
	if err != nil {
		return nil, err
	}
	var resp AWBResponse
	if err := c.call(ctx, http.MethodPost, "/courier/assign/awb", awbRequest{
		ShipmentID: id,
		CourierID:  courierID,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestPickup schedules a pickup for a shipment
func (c *Client) RequestPickup(ctx context.Context, shipmentID string) (*PickupResponse, error) {
	id, err := parseShipmentID(shipmentID)
	if err != nil {
		return nil, err
	}
	var resp PickupResponse
	if err := c.call(ctx, http.MethodPost, "/courier/generate/pickup", pickupRequest{
		ShipmentID: []int64{id},
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TrackShipment fetches tracking by carrier shipment ID
func (c *Client) TrackShipment(ctx context.Context, shipmentID string) (*TrackingResponse, error) {
	path := "/courier/track/shipment/" + url.PathEscape(shipmentID)
	var resp TrackingResponse
	if err := c.callWithRetry(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TrackByAWB fetches tracking by AWB number
func (c *Client) TrackByAWB(ctx context.Context, awb string) (*TrackingResponse, error) {
	path := "/courier/track/awb/" + url.PathEscape(awb)
	var resp TrackingResponse
	if err := c.callWithRetry(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelShipments cancels shipments by AWB numbers
func (c *Client) CancelShipments(ctx context.Context, awbs []string) (*CancelResponse, error) {
	var resp CancelResponse
	if err := c.call(ctx, http.MethodPost, "/orders/cancel/shipment/awbs", cancelRequest{AWBs: awbs}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateLabel produces the shipping label document
func (c *Client) GenerateLabel(ctx context.Context, shipmentIDs []string) (*LabelResponse, error) {
	ids, err := parseShipmentIDs(shipmentIDs)
	if err != nil {
		return nil, err
	}
	var resp LabelResponse
	if err := c.call(ctx, http.MethodPost, "/courier/generate/label", shipmentIDsRequest{ShipmentID: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateManifest produces the pickup manifest document
func (c *Client) GenerateManifest(ctx context.Context, shipmentIDs []string) (*ManifestResponse, error) {
	ids, err := parseShipmentIDs(shipmentIDs)
	if err != nil {
		return nil, err
	}
	var resp ManifestResponse
	if err := c.call(ctx, http.MethodPost, "/manifests/generate", shipmentIDsRequest{ShipmentID: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckServiceability checks courier availability between postcodes
func (c *Client) CheckServiceability(ctx context.Context, query ServiceabilityQuery) (*ServiceabilityResponse, error) {
	cod := "0"
	if query.COD {
		cod = "1"
	}
	values := url.Values{}
	values.Set("pickup_postcode", query.PickupPostcode)
	values.Set("delivery_postcode", query.DeliveryPostcode)
	values.Set("weight", strconv.FormatFloat(query.WeightKG, 'f', -1, 64))
	values.Set("cod", cod)

	var resp ServiceabilityResponse
	if err := c.callWithRetry(ctx, "/courier/serviceability?"+values.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call performs an authenticated request with no retry; mutating carrier
// operations must never be replayed automatically
func (c *Client) call(ctx context.Context, method, path string, body interface{}, dest interface{}) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}
	err = c.doJSON(ctx, method, path, body, token, dest)
	if cerr, ok := err.(*CarrierError); ok && cerr.StatusCode == http.StatusUnauthorized {
		c.invalidateToken()
	}
	return err
}

// callWithRetry performs an authenticated GET with bounded exponential
// backoff; only idempotent reads go through here
func (c *Client) callWithRetry(ctx context.Context, path string, dest interface{}) error {
	operation := func() error {
		token, err := c.bearerToken(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		err = c.doJSON(ctx, http.MethodGet, path, nil, token, dest)
		if err == nil {
			return nil
		}
		if cerr, ok := err.(*CarrierError); ok {
			if cerr.StatusCode == http.StatusUnauthorized {
				c.invalidateToken()
				return err
			}
			if cerr.StatusCode >= 400 && cerr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryDelay
	return backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(c.cfg.RetryMax)), ctx))
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, token string, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shiprocket request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody carrierErrorBody
		_ = json.Unmarshal(raw, &errBody)
		return &CarrierError{
			Op:         method + " " + requestOp(path),
			StatusCode: resp.StatusCode,
			Message:    errBody.Message,
		}
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

func requestOp(path string) string {
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		return path[:idx]
	}
	return path
}

func parseShipmentID(shipmentID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(shipmentID), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid shipment id: %q", shipmentID)
	}
	return id, nil
}

func parseShipmentIDs(shipmentIDs []string) ([]int64, error) {
	ids := make([]int64, 0, len(shipmentIDs))
	for _, raw := range shipmentIDs {
		id, err := parseShipmentID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
