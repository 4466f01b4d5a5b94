package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/validation"
)

type identifierRequest struct {
	Identifier string `json:"identifier"`
	sanitized  bool
}

func (r *identifierRequest) Sanitize() {
	r.Identifier = strings.TrimSpace(r.Identifier)
	r.sanitized = true
}

func (r *identifierRequest) Validate() error {
	if r.Identifier == "" {
		return errors.New("identifier is required")
	}
	return nil
}

type domainFailingRequest struct{}

func (r *domainFailingRequest) Validate() error {
	return dErrors.New(dErrors.CodeInvalidIdentifier, "identifier must be digits")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDecodeJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("decodes body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"identifier":"12345678901"}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[identifierRequest](w, req, logger, ctx, "req-1")

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "12345678901", result.Identifier)
	})

	t.Run("malformed body writes 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{nope}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[identifierRequest](w, req, logger, ctx, "req-2")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w)["error"])
	})

	t.Run("empty body writes 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(""))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[identifierRequest](w, req, logger, ctx, "req-empty")

		assert.False(t, ok)
		assert.Equal(t, "request body is empty", decodeError(t, w)["error_description"])
	})

	t.Run("trailing document is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"identifier":"12345678901"} {"identifier":"1"}`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[identifierRequest](w, req, logger, ctx, "req-trailing")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w)["error"])
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		huge := `{"identifier":"` + strings.Repeat("1", validation.MaxBodySize) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(huge))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[identifierRequest](w, req, logger, ctx, "req-3")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, fmt.Sprintf("request body exceeds %d bytes", validation.MaxBodySize), body["error_description"])
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("sanitizes before validating", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"identifier":"  12345678901  "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[identifierRequest](w, req, logger, ctx, "req-4")

		require.True(t, ok)
		assert.True(t, result.sanitized)
		assert.Equal(t, "12345678901", result.Identifier)
	})

	t.Run("plain validation error maps to validation_error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"identifier":"   "}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[identifierRequest](w, req, logger, ctx, "req-5")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w)["error"])
	})

	t.Run("domain validation error keeps its code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[domainFailingRequest](w, req, logger, ctx, "req-6")

		assert.False(t, ok)
		assert.Equal(t, "invalid_identifier", decodeError(t, w)["error"])
	})
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		code   dErrors.Code
		status int
		wire   string
	}{
		{dErrors.CodeInvalidIdentifier, http.StatusBadRequest, "invalid_identifier"},
		{dErrors.CodeAlreadyRegistered, http.StatusConflict, "already_registered"},
		{dErrors.CodeSelfConsent, http.StatusBadRequest, "self_consent"},
		{dErrors.CodeAccessDenied, http.StatusForbidden, "access_denied"},
		{dErrors.CodeNotRegistered, http.StatusNotFound, "not_registered"},
		{dErrors.CodeTimeout, http.StatusGatewayTimeout, "timeout"},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, dErrors.New(tc.code, "detail"))

			assert.Equal(t, tc.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tc.wire, body["error"])
			assert.Equal(t, "detail", body["error_description"])
		})
	}

	t.Run("internal errors hide their message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "pq: relation does not exist"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		_, leaked := decodeError(t, w)["error_description"]
		assert.False(t, leaked)
	})

	t.Run("foreign errors become internal_error", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_error", decodeError(t, w)["error"])
	})
}
