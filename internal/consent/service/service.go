package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"scad/internal/consent/metrics"
	"scad/internal/consent/models"
	"scad/internal/events"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/outbox"
	"scad/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

// Store defines the persistence interface for consent grants.
// Error contract:
// - Find returns sentinel.ErrNotFound when the pair was never written
// - Other methods return nil on success or wrapped errors on failure
type Store interface {
	Upsert(ctx context.Context, g *models.Grant) error
	Find(ctx context.Context, owner, reader domain.Address) (*models.Grant, error)
	ListGranted(ctx context.Context, owner domain.Address) ([]*models.Grant, error)
}

type Option func(*Service)

// Service keeps the per-owner consent map. Missing entries mean no consent.
type Service struct {
	store   Store
	tx      Tx
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func New(store Store, tx Tx, opts ...Option) *Service {
	svc := &Service{
		store:  store,
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

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// SetConsent records whether reader may view owner's record. Every successful
// call emits ConsentChanged, including writes of the value already stored.
// An owner cannot name itself as reader.
func (s *Service) SetConsent(ctx context.Context, owner, reader domain.Address, granted bool) error {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveSetLatency(time.Since(start).Seconds())
		}
	}()

	if owner.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing caller")
	}
	if reader.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "reader is required")
	}
	if owner == reader {
		s.reject("self_consent")
		return dErrors.New(dErrors.CodeSelfConsent, "an address cannot grant consent to itself")
	}

	grant := &models.Grant{
		Owner:     owner,
		Reader:    reader,
		Granted:   granted,
		UpdatedAt: s.now().UTC(),
	}
	entry, err := events.NewConsentChangedEntry(owner, reader, granted, grant.UpdatedAt)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode consent event")
	}

	err = s.tx.RunInTx(ctx, owner, func(ctx context.Context, store Store, appender outbox.Appender) error {
		if err := store.Upsert(ctx, grant); err != nil {
			return err
		}
		return appender.Append(ctx, entry)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeTimeout) {
			return err
		}
		s.logger.ErrorContext(ctx, "consent transaction failed",
			"owner", owner,
			"reader", reader,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store consent")
	}

	if s.metrics != nil {
		s.metrics.IncChanged(granted)
	}
	s.logger.InfoContext(ctx, "consent changed",
		"owner", owner,
		"reader", reader,
		"granted", granted,
		"sequence", entry.Sequence,
	)
	return nil
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.IncRejected(reason)
	}
}

// HasConsent is total: a pair that was never written reports false.
func (s *Service) HasConsent(ctx context.Context, owner, reader domain.Address) (bool, error) {
	g, err := s.store.Find(ctx, owner, reader)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.check(false)
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
	}
	s.check(g.Granted)
	return g.Granted, nil
}

func (s *Service) check(granted bool) {
	if s.metrics != nil {
		s.metrics.IncCheck(granted)
	}
}

// ListReaders returns the readers owner currently consents to, ordered by address.
func (s *Service) ListReaders(ctx context.Context, owner domain.Address) ([]domain.Address, error) {
	grants, err := s.store.ListGranted(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list consents")
	}
	readers := make([]domain.Address, 0, len(grants))
	for _, g := range grants {
		readers = append(readers, g.Reader)
	}
	return readers, nil
}
