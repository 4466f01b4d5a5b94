// Package ports declares what the access service needs from the registry and
// consent modules. In-process adapters live in internal/access/adapters.
package ports

import (
	"context"

	registrymodels "scad/internal/registry/models"
	"scad/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks RegistryPort,ConsentPort

// RegistryPort reads registration records without any caller notion.
type RegistryPort interface {
	// GetRecord returns nil with no error when owner has no record.
	GetRecord(ctx context.Context, owner domain.Address) (*registrymodels.Record, error)
}

// ConsentPort answers consent lookups. Absent pairs report false.
type ConsentPort interface {
	HasConsent(ctx context.Context, owner, reader domain.Address) (bool, error)
}
