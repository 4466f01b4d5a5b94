package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"scad/pkg/domain"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims carries what the ledger needs from a verified token.
type JWTClaims struct {
	Caller domain.Address
	JTI    string
}

type contextKeyCaller struct{}

// WithCaller stores the authenticated caller. Used by RequireAuth and by tests.
func WithCaller(ctx context.Context, caller domain.Address) context.Context {
	return context.WithValue(ctx, contextKeyCaller{}, caller)
}

// GetCaller retrieves the authenticated caller address from the context.
func GetCaller(ctx context.Context) domain.Address {
	caller, ok := ctx.Value(contextKeyCaller{}).(domain.Address)
	if !ok {
		return ""
	}
	return caller
}

// RequireAuth rejects requests without a valid bearer token and records the
// token subject as the caller for downstream handlers.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}
			if claims.Caller.IsZero() {
				logger.WarnContext(ctx, "unauthorized access - token has no subject",
					"jti", claims.JTI,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(ctx, claims.Caller)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
