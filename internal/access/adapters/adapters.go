package adapters

import (
	"context"

	"scad/internal/access/ports"
	registrymodels "scad/internal/registry/models"
	"scad/pkg/domain"
)

// RecordGetter is the slice of the registry service the access module reads through.
type RecordGetter interface {
	GetRecord(ctx context.Context, owner domain.Address) (*registrymodels.Record, error)
}

// ConsentChecker is the slice of the consent service the access module reads through.
type ConsentChecker interface {
	HasConsent(ctx context.Context, owner, reader domain.Address) (bool, error)
}

// RegistryAdapter is an in-process ports.RegistryPort over the registry service.
type RegistryAdapter struct {
	registry RecordGetter
}

func NewRegistryAdapter(registry RecordGetter) ports.RegistryPort {
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) GetRecord(ctx context.Context, owner domain.Address) (*registrymodels.Record, error) {
	return a.registry.GetRecord(ctx, owner)
}

// ConsentAdapter is an in-process ports.ConsentPort over the consent service.
type ConsentAdapter struct {
	consent ConsentChecker
}

func NewConsentAdapter(consent ConsentChecker) ports.ConsentPort {
	return &ConsentAdapter{consent: consent}
}

func (a *ConsentAdapter) HasConsent(ctx context.Context, owner, reader domain.Address) (bool, error) {
	return a.consent.HasConsent(ctx, owner, reader)
}
