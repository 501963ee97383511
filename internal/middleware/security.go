package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// SecurityHeaders adds security headers to HTTP responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Referrer policy
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// JSON and websocket only, nothing here renders
		w.Header().Set("Content-Security-Policy", "default-src 'none'")

		// Calls need camera and microphone on the page that embeds us
		w.Header().Set("Permissions-Policy", "camera=(self), microphone=(self), geolocation=()")

		next.ServeHTTP(w, r)
	})
}

// OriginChecker validates the Origin header of websocket upgrades
type OriginChecker struct {
	allowed map[string]struct{}
	dev     bool
}

// NewOriginChecker creates a checker for the given origins.
// In development any localhost origin is accepted as well.
func NewOriginChecker(origins []string, dev bool) *OriginChecker {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return &OriginChecker{allowed: allowed, dev: dev}
}

// Check reports whether r may be upgraded. Requests without Origin
// (non-browser clients) and same-host requests are allowed.
func (o *OriginChecker) Check(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	if _, ok := o.allowed[strings.ToLower(u.Scheme+"://"+u.Host)]; ok {
		return true
	}
	if o.dev {
		host := u.Hostname()
		return host == "localhost" || host == "127.0.0.1"
	}
	return false
}
