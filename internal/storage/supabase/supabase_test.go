package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{
		URL:        server.URL,
		ServiceKey: "service-key",
		Bucket:     "product-images",
	})
	return client, server
}

func TestUploadReturnsPublicURL(t *testing.T) {
	var gotPath, gotAuth, gotType string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	})

	publicURL, err := client.Upload(context.Background(), "product-12-image1.webp", "image/webp", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if gotPath != "/storage/v1/object/product-images/product-12-image1.webp" {
		t.Fatalf("unexpected upload path: %s", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Fatalf("service key not forwarded: %s", gotAuth)
	}
	if gotType != "image/webp" {
		t.Fatalf("content type not forwarded: %s", gotType)
	}
	want := server.URL + "/storage/v1/object/public/product-images/product-12-image1.webp"
	if publicURL != want {
		t.Fatalf("public url mismatch: got %s want %s", publicURL, want)
	}
}

func TestUploadSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"The resource already exists"}`))
	})

	_, err := client.Upload(context.Background(), "dup.png", "image/png", strings.NewReader("data"))
	if err == nil || !strings.Contains(err.Error(), "The resource already exists") {
		t.Fatalf("expected API message in error, got %v", err)
	}
}

func TestDeleteAcceptsPublicURL(t *testing.T) {
	var gotPath, gotMethod string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	})

	target := server.URL + "/storage/v1/object/public/product-images/old/image.png"
	if err := client.Delete(context.Background(), target); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("unexpected method: %s", gotMethod)
	}
	if gotPath != "/storage/v1/object/product-images/old/image.png" {
		t.Fatalf("unexpected delete path: %s", gotPath)
	}
}

func TestDeleteMissingObjectIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if err := client.Delete(context.Background(), "gone.png"); err != nil {
		t.Fatalf("missing object should be ignored: %v", err)
	}
}

func TestObjectPath(t *testing.T) {
	client := NewClient(Config{URL: "https://proj.supabase.co", ServiceKey: "k", Bucket: "product-images"})

	cases := []struct {
		in   string
		want string
	}{
		{"https://proj.supabase.co/storage/v1/object/public/product-images/a/b.png", "a/b.png"},
		{"a/b.png", "a/b.png"},
		{"/a/b.png", "a/b.png"},
		{"https://other.example.com/no-bucket-here.png", ""},
	}
	for _, tc := range cases {
		if got := client.ObjectPath(tc.in); got != tc.want {
			t.Errorf("ObjectPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(Config{})
	if client.Configured() {
		t.Fatal("empty config must not report configured")
	}
	if _, err := client.Upload(context.Background(), "x.png", "image/png", strings.NewReader("d")); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
