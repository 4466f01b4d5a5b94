package httputil

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scad/pkg/domain"
	"scad/pkg/platform/validation"
)

// AddressParam parses the named route parameter as an address.
func AddressParam(r *http.Request, name string) (domain.Address, error) {
	raw := chi.URLParam(r, name)
	if err := validation.CheckStringLength(name, raw, validation.MaxAddressInputLength); err != nil {
		return "", err
	}
	return domain.ParseAddress(raw)
}
