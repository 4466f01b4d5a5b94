package validation

import (
	"fmt"

	dErrors "scad/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	MaxBodySize = 64 * 1024
)

// Input length limits applied before domain validation runs.
const (
	// MaxAddressInputLength bounds a raw address string ("0x" + 40 hex, with slack for whitespace).
	MaxAddressInputLength = 64
)

// Paging limits for list endpoints.
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// ClampPageSize returns requested bounded to (0, MaxPageSize], defaulting when unset.
func ClampPageSize(requested int) int {
	switch {
	case requested <= 0:
		return DefaultPageSize
	case requested > MaxPageSize:
		return MaxPageSize
	default:
		return requested
	}
}
