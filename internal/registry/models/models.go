package models

import (
	"time"

	"scad/internal/identifier"
	"scad/pkg/domain"
)

// Record is an owner's registration. It is created once and never changes.
type Record struct {
	Owner        domain.Address
	Identifier   identifier.Digits
	IsCompany    bool
	RegisteredAt time.Time
}

// Kind reports whether the record holds a person or an organization identifier.
func (r *Record) Kind() identifier.Kind {
	if r.IsCompany {
		return identifier.KindOrganization
	}
	return identifier.KindPerson
}

// Status is the public answer to "is this address registered".
type Status struct {
	Owner      domain.Address
	Registered bool
}
