package service

import (
	"context"
	"log/slog"
	"time"

	"scad/internal/access/metrics"
	"scad/internal/access/models"
	"scad/internal/access/ports"
	"scad/internal/access/tracer"
	registrymodels "scad/internal/registry/models"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
)

// Service answers "may caller read owner's record" and serves the reads that depend on it.
// Consent is looked up on every call and never cached.
type Service struct {
	registry ports.RegistryPort
	consent  ports.ConsentPort
	tracer   tracer.Tracer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Service)

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
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

func New(registry ports.RegistryPort, consent ports.ConsentPort, opts ...Option) *Service {
	svc := &Service{
		registry: registry,
		consent:  consent,
		tracer:   tracer.NewNoop(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Evaluate allows the owner itself and any reader the owner has consented to.
func (s *Service) Evaluate(ctx context.Context, caller, owner domain.Address) (d models.Decision, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanEvaluate,
		tracer.String(tracer.AttrCaller, caller.String()),
		tracer.String(tracer.AttrOwner, owner.String()),
	)
	defer func() { span.End(err) }()

	start := time.Now()
	d, path, err := s.evaluate(ctx, span, caller, owner)
	if err != nil {
		return models.DecisionDenied, err
	}

	span.SetAttributes(tracer.String(tracer.AttrDecision, d.String()))
	if s.metrics != nil {
		s.metrics.IncDecision(d, path)
		s.metrics.ObserveDecisionLatency(time.Since(start).Seconds())
	}
	return d, nil
}

func (s *Service) evaluate(ctx context.Context, span tracer.Span, caller, owner domain.Address) (models.Decision, string, error) {
	if caller.IsZero() {
		return models.DecisionDenied, "", dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	if caller == owner {
		span.SetAttributes(tracer.Bool(tracer.AttrSelf, true))
		return models.DecisionAllowed, "self", nil
	}

	granted, err := s.consent.HasConsent(ctx, owner, caller)
	if err != nil {
		return models.DecisionDenied, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check consent")
	}
	span.AddEvent(tracer.EventConsentChecked, tracer.Bool("granted", granted))
	if granted {
		return models.DecisionAllowed, "consent", nil
	}
	return models.DecisionDenied, "consent", nil
}

// ViewOwnRecord returns caller's own record, or nil when caller has not registered.
func (s *Service) ViewOwnRecord(ctx context.Context, caller domain.Address) (rec *registrymodels.Record, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanViewOwnRecord,
		tracer.String(tracer.AttrCaller, caller.String()),
	)
	defer func() { span.End(err) }()

	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}

	rec, err = s.registry.GetRecord(ctx, caller)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read registration")
	}
	span.SetAttributes(tracer.Bool(tracer.AttrRegistered, rec != nil))
	s.lookup(rec != nil)
	return rec, nil
}

// ViewRecordOf returns target's record when caller is allowed to read it.
// Denied is decided before the registry is consulted, so a refused caller
// learns nothing about whether target has registered.
func (s *Service) ViewRecordOf(ctx context.Context, caller, target domain.Address) (rec *registrymodels.Record, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanViewRecordOf,
		tracer.String(tracer.AttrCaller, caller.String()),
		tracer.String(tracer.AttrOwner, target.String()),
	)
	defer func() { span.End(err) }()

	decision, err := s.Evaluate(ctx, caller, target)
	if err != nil {
		return nil, err
	}
	if !decision.IsAllowed() {
		s.logger.InfoContext(ctx, "record read denied",
			"caller", caller.String(),
			"owner", target.String(),
		)
		return nil, dErrors.New(dErrors.CodeAccessDenied, "caller may not read this record")
	}

	rec, err = s.registry.GetRecord(ctx, target)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read registration")
	}
	span.SetAttributes(tracer.Bool(tracer.AttrRegistered, rec != nil))
	s.lookup(rec != nil)
	if rec == nil {
		return nil, dErrors.New(dErrors.CodeNotRegistered, "owner has no registration")
	}
	return rec, nil
}

func (s *Service) lookup(found bool) {
	if s.metrics != nil {
		s.metrics.IncRecordLookup(found)
	}
}
