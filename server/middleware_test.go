package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arvele/medassist-api/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRealIPMiddleware(t *testing.T) {
	var seen string
	handler := RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "203.0.113.7" {
		t.Errorf("Expected first forwarded IP, got %s", seen)
	}
}

func TestRequestSizeMiddlewareRejectsLargeBody(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 10, MaxHeaderSize: 4096}
	handler := RequestSizeMiddleware(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(strings.Repeat("a", 100)))
	req.Header.Set("Content-Length", "100")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", recorder.Code)
	}
}

func TestRequestSizeMiddlewareRejectsLargeHeaders(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 1048576, MaxHeaderSize: 10}
	handler := RequestSizeMiddleware(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Large-Header", strings.Repeat("a", 100))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusRequestHeaderFieldsTooLarge {
		t.Errorf("Expected status 431, got %d", recorder.Code)
	}
}

func TestRequestSizeMiddlewarePassesNormalRequests(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 1048576, MaxHeaderSize: 1048576}
	handler := RequestSizeMiddleware(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}
}

func TestGetTokenCost(t *testing.T) {
	testCases := []struct {
		path     string
		expected int64
	}{
		{"/query", 100},
		{"/products", 200},
		{"/products/aspirin", 20},
		{"/products/search/aspirin", 50},
		{"/interactions", 50},
		{"/dosage/ibuprofen", 50},
		{"/coverage/aspirin/standard", 50},
		{"/health", 5},
		{"/metrics", 5},
		{"/unknown", 20},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if cost := getTokenCost(req); cost != tc.expected {
				t.Errorf("Expected cost %d for %s, got %d", tc.expected, tc.path, cost)
			}
		})
	}
}

func TestRateLimitHandlerExhaustsBucket(t *testing.T) {
	handler := RateLimitHandler(okHandler())

	// A fresh bucket holds 1000 tokens; /products costs 200 per request, so
	// the sixth request must be rejected
	var lastCode int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.RemoteAddr = "192.0.2.55:1234"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		lastCode = recorder.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429 after exhausting the bucket, got %d", lastCode)
	}
}

func TestRateLimitHandlerSetsHeaders(t *testing.T) {
	handler := RateLimitHandler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "192.0.2.99:1234"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Header().Get("X-RateLimit-Limit") != "1000" {
		t.Error("Expected X-RateLimit-Limit header")
	}
	if recorder.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("Expected X-RateLimit-Remaining header")
	}
}
