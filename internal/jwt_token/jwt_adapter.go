package jwttoken

import (
	"scad/internal/platform/middleware"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
)

// ToMiddlewareClaims parses the subject at the trust boundary.
func ToMiddlewareClaims(claims *CallerClaims) (*middleware.JWTClaims, error) {
	caller, err := domain.ParseAddress(claims.Subject)
	if err != nil {
		return nil, &dErrors.Error{Code: dErrors.CodeUnauthorized, Message: "token subject is not an address", Err: err}
	}
	return &middleware.JWTClaims{
		Caller: caller,
		JTI:    claims.ID,
	}, nil
}

// JWTServiceAdapter satisfies middleware.JWTValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims)
}

var _ middleware.JWTValidator = (*JWTServiceAdapter)(nil)
