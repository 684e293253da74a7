package shiprocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := Config{
		BaseURL:    server.URL,
		Email:      "ops@example.com",
		Password:   "secret",
		RetryDelay: time.Millisecond,
	}
	return NewClient(cfg, opts...), server
}

func authHandler(authCalls *int64, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			atomic.AddInt64(authCalls, 1)
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
			return
		}
		next(w, r)
	}
}

func TestBearerTokenCachedWithinWindow(t *testing.T) {
	var authCalls int64
	client, _ := newTestClient(t, authHandler(&authCalls, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TrackingResponse{})
	}))

	ctx := context.Background()
	if _, err := client.TrackByAWB(ctx, "AWB123"); err != nil {
		t.Fatalf("first track failed: %v", err)
	}
	if _, err := client.TrackByAWB(ctx, "AWB123"); err != nil {
		t.Fatalf("second track failed: %v", err)
	}
	if got := atomic.LoadInt64(&authCalls); got != 1 {
		t.Fatalf("expected a single auth call, got %d", got)
	}
}

func TestBearerTokenReauthenticatesAfterExpiry(t *testing.T) {
	var authCalls int64
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := &now
	client, _ := newTestClient(t, authHandler(&authCalls, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TrackingResponse{})
	}), WithNowFunc(func() time.Time { return *clock }))

	ctx := context.Background()
	if _, err := client.TrackByAWB(ctx, "AWB123"); err != nil {
		t.Fatalf("track failed: %v", err)
	}

	// just inside the 10-day window: still cached
	now = now.Add(239 * time.Hour)
	if _, err := client.TrackByAWB(ctx, "AWB123"); err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if got := atomic.LoadInt64(&authCalls); got != 1 {
		t.Fatalf("expected a single auth call inside window, got %d", got)
	}

	// past expiry: a fresh login happens
	now = now.Add(2 * time.Hour)
	if _, err := client.TrackByAWB(ctx, "AWB123"); err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if got := atomic.LoadInt64(&authCalls); got != 2 {
		t.Fatalf("expected re-auth after expiry, got %d auth calls", got)
	}
}

func TestBearerTokenAuthFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))

	_, err := client.TrackByAWB(context.Background(), "AWB123")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.TrackByAWB(context.Background(), "AWB123")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCreateOrderCarriesErrorMessage(t *testing.T) {
	var authCalls int64
	client, _ := newTestClient(t, authHandler(&authCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Wrong Pickup location entered."})
	}))

	_, err := client.CreateOrder(context.Background(), &OrderRequest{OrderID: "GM1001"})
	var carrierErr *CarrierError
	if !errors.As(err, &carrierErr) {
		t.Fatalf("expected CarrierError, got %v", err)
	}
	if carrierErr.Message != "Wrong Pickup location entered." {
		t.Fatalf("carrier message not preserved: %q", carrierErr.Message)
	}
	if carrierErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status code: %d", carrierErr.StatusCode)
	}
}

func TestCreateOrderIsNeverRetried(t *testing.T) {
	var authCalls, orderCalls int64
	client, _ := newTestClient(t, authHandler(&authCalls, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&orderCalls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.CreateOrder(context.Background(), &OrderRequest{OrderID: "GM1001"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt64(&orderCalls); got != 1 {
		t.Fatalf("mutating call must not be retried, got %d attempts", got)
	}
}

func TestTrackingRetriesTransientFailures(t *testing.T) {
	var authCalls, trackCalls int64
	client, _ := newTestClient(t, authHandler(&authCalls, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&trackCalls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(TrackingResponse{
			TrackingData: TrackingData{CurrentStatus: "In Transit"},
		})
	}))

	resp, err := client.TrackByAWB(context.Background(), "AWB123")
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if resp.TrackingData.CurrentStatus != "In Transit" {
		t.Fatalf("unexpected status: %s", resp.TrackingData.CurrentStatus)
	}
	if got := atomic.LoadInt64(&trackCalls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestCheckServiceabilityQueryParams(t *testing.T) {
	var authCalls int64
	var gotQuery map[string]string
	client, _ := newTestClient(t, authHandler(&authCalls, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"pickup_postcode":   r.URL.Query().Get("pickup_postcode"),
			"delivery_postcode": r.URL.Query().Get("delivery_postcode"),
			"weight":            r.URL.Query().Get("weight"),
			"cod":               r.URL.Query().Get("cod"),
		}
		_ = json.NewEncoder(w).Encode(ServiceabilityResponse{Status: 200})
	}))

	_, err := client.CheckServiceability(context.Background(), ServiceabilityQuery{
		PickupPostcode:   "110001",
		DeliveryPostcode: "400001",
		WeightKG:         0.5,
		COD:              true,
	})
	if err != nil {
		t.Fatalf("serviceability failed: %v", err)
	}
	if gotQuery["pickup_postcode"] != "110001" || gotQuery["delivery_postcode"] != "400001" {
		t.Fatalf("postcodes not forwarded: %v", gotQuery)
	}
	if gotQuery["weight"] != "0.5" {
		t.Fatalf("weight not forwarded: %v", gotQuery)
	}
	if gotQuery["cod"] != "1" {
		t.Fatalf("cod flag not forwarded: %v", gotQuery)
	}
}

func TestGenerateAWBParsesAssignment(t *testing.T) {
	var authCalls int64
	client, _ := newTestClient(t, authHandler(&authCalls, func(w http.ResponseWriter, r *http.Request) {
		var req awbRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.ShipmentID != 424242 {
			t.Errorf("unexpected shipment id: %d", req.ShipmentID)
		}
		resp := AWBResponse{AWBAssignStatus: 1}
		resp.Response.Data = AWBData{
			AWBCode:          "19011112345",
			CourierCompanyID: 24,
			CourierName:      "Bluedart",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))

	resp, err := client.GenerateAWB(context.Background(), "424242", 0)
	if err != nil {
		t.Fatalf("generate awb failed: %v", err)
	}
	if resp.Response.Data.AWBCode != "19011112345" {
		t.Fatalf("awb not parsed: %+v", resp)
	}
	if resp.Response.Data.CourierName != "Bluedart" {
		t.Fatalf("courier not parsed: %+v", resp)
	}
}

func TestInvalidShipmentIDRejectedLocally(t *testing.T) {
	var authCalls int64
	client, _ := newTestClient(t, authHandler(&authCalls, func(w http.ResponseWriter, r *http.Request) {
		t.Error("carrier must not be called for invalid shipment ids")
	}))

	if _, err := client.GenerateAWB(context.Background(), "not-a-number", 0); err == nil {
		t.Fatal("expected error for invalid shipment id")
	}
	if _, err := client.RequestPickup(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty shipment id")
	}
}
