package e2e

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	jwttoken "scad/internal/jwt_token"
	"scad/internal/platform/config"
	"scad/pkg/domain"
)

// TestContext holds state between test steps of one scenario.
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte

	tokens     *jwttoken.JWTService
	identities map[string]domain.Address
	server     *httptest.Server
}

// NewTestContext targets BASE_URL when set. Otherwise an in-process ledger is
// started for the scenario.
func NewTestContext() *TestContext {
	key := os.Getenv("JWT_SIGNING_KEY")
	if key == "" {
		key = config.DevSigningKey
	}
	tc := &TestContext{
		BaseURL:    os.Getenv("BASE_URL"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     jwttoken.NewJWTService(key, "scad", "scad-api", 15*time.Minute),
		identities: make(map[string]domain.Address),
	}
	if tc.BaseURL == "" {
		tc.server = startLedger(tc.tokens)
		tc.BaseURL = tc.server.URL
	}
	return tc
}

// Close stops the in-process ledger, if any.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
	}
}

// Identity returns the address behind a scenario name. Each scenario draws
// fresh addresses so runs against a shared server do not collide.
func (tc *TestContext) Identity(name string) domain.Address {
	if addr, ok := tc.identities[name]; ok {
		return addr
	}
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	addr := domain.Address("0x" + hex.EncodeToString(buf))
	tc.identities[name] = addr
	return addr
}

// Do sends a request as the named caller. An empty name sends no token.
func (tc *TestContext) Do(ctx context.Context, method, path string, body any, as string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != "" {
		token, _, err := tc.tokens.GenerateToken(tc.Identity(as))
		if err != nil {
			return fmt.Errorf("failed to mint token for %s: %w", as, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// ResponseJSON decodes the last response body into v.
func (tc *TestContext) ResponseJSON(v any) error {
	if err := json.Unmarshal(tc.LastResponseBody, v); err != nil {
		return fmt.Errorf("failed to parse response: %w\nResponse: %s", err, tc.LastResponseBody)
	}
	return nil
}

// GetResponseField extracts a top-level field from the JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var data map[string]any
	if err := tc.ResponseJSON(&data); err != nil {
		return nil, err
	}
	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}
	return value, nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}
