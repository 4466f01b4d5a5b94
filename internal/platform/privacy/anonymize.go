// Package privacy provides helpers for keeping personal data out of logs and traces.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// AnonymizeIP truncates an IP address to remove the host-identifying portion.
//
// IPv4 addresses are masked to /24 ("192.168.1.47" -> "192.168.1.0") and IPv6
// addresses to their /48 prefix. Returns "invalid" for unparseable input and
// "unknown" for empty strings.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}

// visibleDigits is how many trailing characters MaskDigits leaves readable.
const visibleDigits = 4

// MaskDigits replaces all but the last four characters of a national
// identifier with '*', e.g. "12345678901" -> "*******8901".
func MaskDigits(s string) string {
	if len(s) <= visibleDigits {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-visibleDigits) + s[len(s)-visibleDigits:]
}

// HashIdentifier returns a short SHA-256 prefix of an identifier so traces can be
// correlated without carrying the identifier itself.
func HashIdentifier(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
