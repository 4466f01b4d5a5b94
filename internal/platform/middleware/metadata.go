package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"
)

// MaxXFFHeaderLength bounds the X-Forwarded-For header we are willing to parse.
const MaxXFFHeaderLength = 500

type contextKeyClientIP struct{}
type contextKeyUserAgent struct{}
type contextKeyClientDevice struct{}

// ClientMetadata extracts the client IP and User-Agent into the context.
// Forwarding headers are honoured only when the direct peer is in trustedProxies.
func ClientMetadata(trustedProxies []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua := r.Header.Get("User-Agent")
			ctx := r.Context()
			ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP(r, trustedProxies))
			ctx = context.WithValue(ctx, contextKeyUserAgent{}, ua)
			ctx = context.WithValue(ctx, contextKeyClientDevice{}, describeDevice(ua))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(contextKeyClientIP{}).(string)
	return ip
}

func GetUserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(contextKeyUserAgent{}).(string)
	return ua
}

// GetClientDevice returns a short "Browser on OS" label, or "" when unknown.
func GetClientDevice(ctx context.Context) string {
	d, _ := ctx.Value(contextKeyClientDevice{}).(string)
	return d
}

func describeDevice(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	if ua.Bot() {
		return "bot"
	}
	browser, _ := ua.Browser()
	os := ua.OS()
	switch {
	case browser == "" && os == "":
		return ""
	case os == "":
		return browser
	case browser == "":
		return os
	}
	if ua.Mobile() {
		return browser + " on " + os + " (mobile)"
	}
	return browser + " on " + os
}

func clientIP(r *http.Request, trusted []netip.Prefix) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if !isTrusted(remote, trusted) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && len(xff) <= MaxXFFHeaderLength {
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if _, err := netip.ParseAddr(first); err == nil {
			return first
		}
		return remote
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return remote
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
