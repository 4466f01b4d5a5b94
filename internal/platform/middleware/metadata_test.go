package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientMetadata(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
		expectedUA string
	}{
		{
			name: "trusted proxy forwards client from X-Forwarded-For",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.1, 198.51.100.1",
				"User-Agent":      "Mozilla/5.0",
			},
			remoteAddr: "10.1.1.1:12345",
			expectedIP: "203.0.113.1",
			expectedUA: "Mozilla/5.0",
		},
		{
			name: "trusted proxy forwards X-Real-IP",
			headers: map[string]string{
				"X-Real-IP":  "203.0.113.2",
				"User-Agent": "curl/8.5.0",
			},
			remoteAddr: "10.1.1.1:12345",
			expectedIP: "203.0.113.2",
			expectedUA: "curl/8.5.0",
		},
		{
			name: "untrusted peer cannot spoof X-Forwarded-For",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.1",
			},
			remoteAddr: "192.168.1.100:54321",
			expectedIP: "192.168.1.100",
		},
		{
			name: "malformed forwarded address falls back to peer",
			headers: map[string]string{
				"X-Forwarded-For": "not-an-ip",
			},
			remoteAddr: "10.0.0.9:1",
			expectedIP: "10.0.0.9",
		},
		{
			name:       "IPv6 peer",
			remoteAddr: "[::1]:8080",
			expectedIP: "::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured context.Context
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = r.Context()
			})

			req := httptest.NewRequest(http.MethodGet, "/registry/me", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			ClientMetadata(proxies)(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.expectedIP, GetClientIP(captured))
			assert.Equal(t, tt.expectedUA, GetUserAgent(captured))
		})
	}
}

func TestDescribeDevice(t *testing.T) {
	assert.Equal(t, "", describeDevice(""))
	assert.Equal(t, "bot", describeDevice("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"))

	desktop := describeDevice("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Contains(t, desktop, "Chrome")
	assert.NotContains(t, desktop, "mobile")

	phone := describeDevice("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Contains(t, phone, "(mobile)")
}
