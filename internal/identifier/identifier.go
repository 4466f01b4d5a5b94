// Package identifier validates national registration numbers before they reach
// the registry. It is pure: no I/O, no state, no clock.
package identifier

import (
	"fmt"

	"scad/internal/platform/privacy"
	dErrors "scad/pkg/domain-errors"
)

// Kind distinguishes natural persons from organizations by identifier length.
type Kind int

const (
	KindPerson       Kind = iota // CPF, 11 digits
	KindOrganization             // CNPJ, 14 digits
)

const (
	PersonLength       = 11
	OrganizationLength = 14
)

// Length is the exact digit count required for k.
func (k Kind) Length() int {
	if k == KindOrganization {
		return OrganizationLength
	}
	return PersonLength
}

// IsCompany reports whether k denotes an organization.
func (k Kind) IsCompany() bool { return k == KindOrganization }

func (k Kind) String() string {
	if k == KindOrganization {
		return "organization"
	}
	return "person"
}

// Digits is an identifier that already passed Validate.
type Digits string

func (d Digits) String() string { return string(d) }

// Masked renders d with all but the last four digits hidden.
func (d Digits) Masked() string { return privacy.MaskDigits(string(d)) }

// Validate accepts candidate only if it is exactly expectedLength ASCII digits.
// expectedLength must be PersonLength or OrganizationLength.
func Validate(candidate string, expectedLength int) (Digits, error) {
	if expectedLength != PersonLength && expectedLength != OrganizationLength {
		return "", dErrors.New(dErrors.CodeInvalidIdentifier,
			fmt.Sprintf("unsupported identifier length %d", expectedLength))
	}
	if len(candidate) != expectedLength {
		return "", dErrors.New(dErrors.CodeInvalidIdentifier,
			fmt.Sprintf("identifier must have exactly %d digits", expectedLength))
	}
	for i := 0; i < len(candidate); i++ {
		if candidate[i] < '0' || candidate[i] > '9' {
			return "", dErrors.New(dErrors.CodeInvalidIdentifier, "identifier must contain only digits 0-9")
		}
	}
	return Digits(candidate), nil
}

// ValidateKind is Validate with the length taken from k.
func ValidateKind(candidate string, k Kind) (Digits, error) {
	return Validate(candidate, k.Length())
}

func ValidatePerson(candidate string) (Digits, error) {
	return Validate(candidate, PersonLength)
}

func ValidateOrganization(candidate string) (Digits, error) {
	return Validate(candidate, OrganizationLength)
}
