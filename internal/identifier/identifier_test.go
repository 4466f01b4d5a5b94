package identifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "scad/pkg/domain-errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		length    int
		wantErr   bool
	}{
		{name: "person digits", candidate: "12345678901", length: PersonLength},
		{name: "organization digits", candidate: "12345678000190", length: OrganizationLength},
		{name: "all zeros is still well formed", candidate: "00000000000", length: PersonLength},
		{name: "one digit short", candidate: "1234567890", length: PersonLength, wantErr: true},
		{name: "one digit long", candidate: "123456789012", length: PersonLength, wantErr: true},
		{name: "cpf punctuation", candidate: "123.456.789-01", length: PersonLength, wantErr: true},
		{name: "letter inside", candidate: "1234567890a", length: PersonLength, wantErr: true},
		{name: "space padded", candidate: " 2345678901", length: PersonLength, wantErr: true},
		{name: "empty", candidate: "", length: PersonLength, wantErr: true},
		{name: "person digits against organization length", candidate: "12345678901", length: OrganizationLength, wantErr: true},
		{name: "unicode digits rejected", candidate: "١٢٣٤٥٦٧٨٩٠١", length: PersonLength, wantErr: true},
		{name: "unsupported length", candidate: "123456789012", length: 12, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.candidate, tt.length)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidIdentifier))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Digits(tt.candidate), got)
		})
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		d, err := ValidatePerson("98765432100")
		require.NoError(t, err)
		assert.Equal(t, Digits("98765432100"), d)

		_, err = ValidateOrganization("98765432100")
		assert.Error(t, err)
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, PersonLength, KindPerson.Length())
	assert.Equal(t, OrganizationLength, KindOrganization.Length())
	assert.False(t, KindPerson.IsCompany())
	assert.True(t, KindOrganization.IsCompany())

	_, err := ValidateKind(strings.Repeat("7", 14), KindOrganization)
	assert.NoError(t, err)
}

func TestDigitsMasked(t *testing.T) {
	assert.Equal(t, "*******8901", Digits("12345678901").Masked())
}
