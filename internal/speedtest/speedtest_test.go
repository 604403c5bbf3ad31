package speedtest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCheckerAcceptsHealthyEndpoint(t *testing.T) {
	var gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	latency, err := New().Test(context.Background(), srv.URL, "sk-test-123")
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if latency <= 0 {
		t.Errorf("latency = %v", latency)
	}
	if gotKey != "sk-test-123" || gotAuth != "Bearer sk-test-123" {
		t.Errorf("credentials not sent: %q / %q", gotKey, gotAuth)
	}
}

func TestCheckerToleratesUnknownPath(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := New().Test(context.Background(), srv.URL, "sk"); err != nil {
		t.Errorf("404 on the root path should still count as alive: %v", err)
	}
}

func TestCheckerRejections(t *testing.T) {
	for _, tc := range []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "credentials rejected"},
		{http.StatusForbidden, "credentials rejected"},
		{http.StatusBadGateway, "server error"},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		_, err := New().Test(context.Background(), srv.URL, "sk")
		srv.Close()

		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("status %d: got %v, want %q", tc.status, err, tc.want)
		}
	}
}

func TestCheckerHonorsContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New().Test(ctx, srv.URL, "sk")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation did not release the request: %v", elapsed)
	}
}

func TestCheckerConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New().Test(context.Background(), url, "sk")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("got %v", err)
	}
}
