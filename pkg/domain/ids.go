// Package domain provides the Address type that names owners and readers.
package domain

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "scad/pkg/domain-errors"
)

// Address is the opaque external identity of a caller, owner or reader.
// It is always held in its canonical lower-case "0x" form.
type Address string

const addressHexLen = 40

// ParseAddress validates s at a trust boundary and returns its canonical form.
// Mixed-case input must carry a valid EIP-55 checksum; uniform case is accepted as is.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	body, ok := strings.CutPrefix(s, "0x")
	if !ok {
		body, ok = strings.CutPrefix(s, "0X")
	}
	if !ok || len(body) != addressHexLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be 0x followed by 40 hex characters")
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be hexadecimal")
	}

	lower := strings.ToLower(body)
	if body != lower && body != strings.ToUpper(body) {
		if checksum(lower) != body {
			return "", dErrors.New(dErrors.CodeInvalidInput, "address checksum mismatch")
		}
	}
	return Address("0x" + lower), nil
}

// MustParseAddress is ParseAddress for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string { return string(a) }

// IsZero reports whether a carries no identity.
func (a Address) IsZero() bool { return a == "" }

// Checksum renders a in EIP-55 mixed case for display.
func (a Address) Checksum() string {
	if a.IsZero() {
		return ""
	}
	return "0x" + checksum(strings.TrimPrefix(string(a), "0x"))
}

func checksum(lowerHex string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lowerHex))
	digest := h.Sum(nil)

	out := []byte(lowerHex)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}
