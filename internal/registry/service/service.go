package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"scad/internal/events"
	"scad/internal/identifier"
	"scad/internal/platform/privacy"
	"scad/internal/registry/metrics"
	"scad/internal/registry/models"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/outbox"
	"scad/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store Reader

// Store is the registry persistence used inside a transaction.
// Error contract:
// - Create returns sentinel.ErrConflict when the owner already has a record
// - FindByOwner returns sentinel.ErrNotFound when the owner has no record
type Store interface {
	Create(ctx context.Context, record *models.Record) error
	FindByOwner(ctx context.Context, owner domain.Address) (*models.Record, error)
}

// Reader is the read path, possibly cached. Same error contract as Store.FindByOwner.
type Reader interface {
	FindByOwner(ctx context.Context, owner domain.Address) (*models.Record, error)
}

type Option func(*Service)

// Service owns the write-once registration ledger.
type Service struct {
	reader  Reader
	tx      Tx
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func New(reader Reader, tx Tx, opts ...Option) *Service {
	svc := &Service{
		reader: reader,
		tx:     tx,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for RegisteredAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// RegisterPerson records an 11-digit person identifier for owner.
func (s *Service) RegisterPerson(ctx context.Context, owner domain.Address, candidate string) error {
	return s.register(ctx, owner, candidate, identifier.KindPerson)
}

// RegisterOrganization records a 14-digit organization identifier for owner.
func (s *Service) RegisterOrganization(ctx context.Context, owner domain.Address, candidate string) error {
	return s.register(ctx, owner, candidate, identifier.KindOrganization)
}

func (s *Service) register(ctx context.Context, owner domain.Address, candidate string, kind identifier.Kind) error {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRegisterLatency(time.Since(start).Seconds())
		}
	}()

	if owner.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing caller")
	}

	digits, err := identifier.ValidateKind(candidate, kind)
	if err != nil {
		s.reject("invalid_identifier")
		return err
	}

	record := &models.Record{
		Owner:        owner,
		Identifier:   digits,
		IsCompany:    kind.IsCompany(),
		RegisteredAt: s.now().UTC(),
	}
	entry, err := events.NewRegisteredEntry(owner, digits, record.IsCompany, record.RegisteredAt)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode registration event")
	}

	err = s.tx.RunInTx(ctx, owner, func(ctx context.Context, store Store, appender outbox.Appender) error {
		if err := store.Create(ctx, record); err != nil {
			return err
		}
		return appender.Append(ctx, entry)
	})
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			s.reject("already_registered")
			return dErrors.New(dErrors.CodeAlreadyRegistered, "address already has a registration")
		case dErrors.HasCode(err, dErrors.CodeTimeout):
			return err
		default:
			s.logger.ErrorContext(ctx, "registration transaction failed",
				"owner", owner,
				"error", err,
			)
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
		}
	}

	if s.metrics != nil {
		s.metrics.IncRegistered(kind.String())
	}
	s.logger.InfoContext(ctx, "registration committed",
		"owner", owner,
		"kind", kind.String(),
		"identifier_hash", privacy.HashIdentifier(digits.String()),
		"sequence", entry.Sequence,
	)
	return nil
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.IncRejected(reason)
	}
}

// IsRegistered reports whether owner has a record. It never fails on absence.
func (s *Service) IsRegistered(ctx context.Context, owner domain.Address) (bool, error) {
	rec, err := s.GetRecord(ctx, owner)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// GetRecord returns owner's record, or nil with no error when none exists.
// It performs no authorization; callers outside the access service must not expose it.
func (s *Service) GetRecord(ctx context.Context, owner domain.Address) (*models.Record, error) {
	rec, err := s.reader.FindByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read registration")
	}
	return rec, nil
}
