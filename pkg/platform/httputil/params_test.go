package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "scad/pkg/domain-errors"
)

func withParam(name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAddressParam(t *testing.T) {
	t.Run("canonicalizes", func(t *testing.T) {
		addr, err := AddressParam(withParam("owner", "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"), "owner")
		require.NoError(t, err)
		assert.Equal(t, "0x"+strings.Repeat("a", 40), addr.String())
	})

	t.Run("oversized input is a validation error", func(t *testing.T) {
		_, err := AddressParam(withParam("owner", strings.Repeat("f", 200)), "owner")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("malformed input is invalid_input", func(t *testing.T) {
		_, err := AddressParam(withParam("reader", "0x123"), "reader")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
