package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	secured := SecurityHeaders(handler)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	secured.ServeHTTP(w, req)

	tests := []struct {
		header   string
		expected string
		contains bool
	}{
		{"X-Frame-Options", "DENY", false},
		{"X-Content-Type-Options", "nosniff", false},
		{"Referrer-Policy", "strict-origin-when-cross-origin", false},
		{"Content-Security-Policy", "default-src 'none'", false},
		{"Permissions-Policy", "microphone=(self)", true},
	}

	for _, tc := range tests {
		got := w.Header().Get(tc.header)
		if tc.contains {
			if !strings.Contains(got, tc.expected) {
				t.Errorf("Expected %s header to contain '%s', got '%s'", tc.header, tc.expected, got)
			}
		} else if got != tc.expected {
			t.Errorf("Expected %s header to be '%s', got '%s'", tc.header, tc.expected, got)
		}
	}
}

func TestSecurityHeaders_PassesThrough(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte("Hello"))
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	SecurityHeaders(handler).ServeHTTP(w, req)

	if !called {
		t.Error("Expected handler to be called")
	}
	if w.Body.String() != "Hello" {
		t.Errorf("Expected body 'Hello', got '%s'", w.Body.String())
	}
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name   string
		dev    bool
		host   string
		origin string
		want   bool
	}{
		{"no origin", false, "calls.example", "", true},
		{"same host", false, "calls.example", "https://calls.example", true},
		{"allowed origin", false, "api.example", "https://app.example", true},
		{"allowed origin trailing slash config", false, "api.example", "https://other.example", true},
		{"foreign origin", false, "api.example", "https://evil.example", false},
		{"localhost in production", false, "api.example", "http://localhost:3000", false},
		{"localhost in development", true, "api.example", "http://localhost:3000", true},
		{"garbage origin", false, "api.example", "::not a url", false},
	}

	checker := func(dev bool) *OriginChecker {
		return NewOriginChecker([]string{"https://app.example", "https://Other.example/"}, dev)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ws", nil)
			req.Host = tc.host
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}

			if got := checker(tc.dev).Check(req); got != tc.want {
				t.Errorf("Check(origin=%q) = %v, expected %v", tc.origin, got, tc.want)
			}
		})
	}
}
