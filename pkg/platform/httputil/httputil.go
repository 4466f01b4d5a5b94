package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "scad/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and error responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		// Internal failures never echo their message to the caller.
		if domainErr.Message != "" && domainErr.Code != dErrors.CodeInternal {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeInvalidIdentifier, dErrors.CodeSelfConsent:
		return http.StatusBadRequest
	case dErrors.CodeAlreadyRegistered:
		return http.StatusConflict
	case dErrors.CodeAccessDenied:
		return http.StatusForbidden
	case dErrors.CodeNotRegistered:
		return http.StatusNotFound
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to HTTP error codes (for JSON response).
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation:
		return "validation_error"
	case dErrors.CodeInvalidIdentifier:
		return "invalid_identifier"
	case dErrors.CodeSelfConsent:
		return "self_consent"
	case dErrors.CodeAlreadyRegistered:
		return "already_registered"
	case dErrors.CodeAccessDenied:
		return "access_denied"
	case dErrors.CodeNotRegistered:
		return "not_registered"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	case dErrors.CodeTimeout:
		return "timeout"
	default:
		return "internal_error"
	}
}
