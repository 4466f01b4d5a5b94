package models

import (
	"time"

	"scad/pkg/domain"
)

// Grant is the current consent an owner has given a reader.
// Absence of a Grant means no consent; a revoked grant is kept with Granted=false.
type Grant struct {
	Owner     domain.Address
	Reader    domain.Address
	Granted   bool
	UpdatedAt time.Time
}
