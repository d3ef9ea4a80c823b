package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tls-constraints/internal/admission"
	"tls-constraints/internal/metrics"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"
)

// Engine owns the relay between tenant channels and the upstream CA. It
// processes events strictly one at a time, run to completion, so admission
// decisions and reservation writes never race each other. Deferred events are
// replayed by the engine itself on a retry interval; replay is safe because
// filter evaluation is pure and commits are idempotent.
type Engine struct {
	controller    *admission.Controller
	channel       TenantChannel
	upstream      UpstreamClient
	clk           clock.Clock
	logger        *slog.Logger
	retryInterval time.Duration

	queue    chan queuedEvent
	deferred []queuedEvent
}

type queuedEvent struct {
	id    string
	event Event
}

func NewEngine(controller *admission.Controller, channel TenantChannel, upstream UpstreamClient, clk clock.Clock, queueSize int, retryInterval time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		controller:    controller,
		channel:       channel,
		upstream:      upstream,
		clk:           clk,
		logger:        logger,
		retryInterval: retryInterval,
		queue:         make(chan queuedEvent, queueSize),
	}
}

// Submit enqueues an event for processing. It blocks when the queue is full.
func (e *Engine) Submit(event Event) {
	e.queue <- queuedEvent{
		id:    uuid.New().String(),
		event: event,
	}
}

// Run processes events until the context is cancelled. It must be the only
// goroutine touching the deferred list and the reservation table.
func (e *Engine) Run(ctx context.Context) error {
	retry := e.clk.After(e.retryInterval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case q := <-e.queue:
			e.process(ctx, q)
		case <-retry:
			e.replayDeferred(ctx)
			retry = e.clk.After(e.retryInterval)
		}
	}
}

func (e *Engine) process(ctx context.Context, q queuedEvent) {
	outcome := e.handle(ctx, q)

	switch outcome {
	case OutcomeDeferred:
		metrics.RelayEventsTotal.WithLabelValues(q.event.Type(), metrics.EventOutcomeDeferred).Inc()
		e.deferred = append(e.deferred, q)
	default:
		metrics.RelayEventsTotal.WithLabelValues(q.event.Type(), metrics.EventOutcomeHandled).Inc()
	}

	metrics.DeferredEvents.Set(float64(len(e.deferred)))
}

func (e *Engine) replayDeferred(ctx context.Context) {
	if len(e.deferred) == 0 {
		return
	}

	pending := e.deferred
	e.deferred = nil
	e.logger.Debug("replaying deferred events", "count", len(pending))

	for _, q := range pending {
		e.process(ctx, q)
	}
}

func (e *Engine) handle(ctx context.Context, q queuedEvent) Outcome {
	switch event := q.event.(type) {
	case CreateRequest:
		return e.handleCreateRequest(ctx, q.id, event)
	case RevokeRequest:
		return e.handleRevokeRequest(ctx, q.id, event)
	case CertificateAvailable:
		return e.handleCertificateAvailable(ctx, q.id, event)
	case CertificateInvalidated:
		return e.handleCertificateInvalidated(ctx, q.id, event)
	case AllInvalidated:
		return e.handleAllInvalidated(ctx, q.id)
	default:
		e.logger.Error("unknown relay event", "event_id", q.id, "type", q.event.Type())
		return OutcomeHandled
	}
}

func (e *Engine) handleCreateRequest(ctx context.Context, id string, event CreateRequest) Outcome {
	if !e.upstream.Connected() {
		e.logger.Warn("no upstream CA link, deferring certificate request",
			"event_id", id,
			"tenant_id", event.TenantID,
		)
		return OutcomeDeferred
	}

	outstanding, err := e.channel.Outstanding(ctx)
	if err != nil {
		e.logger.Error("could not snapshot outstanding requests, dropping certificate request",
			"event_id", id,
			"tenant_id", event.TenantID,
			"error", err,
		)
		return OutcomeHandled
	}

	decision := e.controller.Decide(ctx, event.CSR, event.TenantID, outstanding)
	if !decision.Allowed {
		e.logger.Warn("certificate request was denied, details in previous logs",
			"event_id", id,
			"tenant_id", event.TenantID,
			"denied_by", decision.DeniedBy,
		)
		return OutcomeHandled
	}

	if err := e.upstream.RequestCreation(ctx, event.CSR, event.IsCA); err != nil {
		// The claim is already recorded; replay re-evaluates idempotently.
		e.logger.Error("failed to forward certificate request upstream, will retry",
			"event_id", id,
			"tenant_id", event.TenantID,
			"error", err,
		)
		return OutcomeDeferred
	}

	e.logger.Info("certificate request forwarded upstream",
		"event_id", id,
		"tenant_id", event.TenantID,
		"is_ca", event.IsCA,
	)
	return OutcomeHandled
}

func (e *Engine) handleRevokeRequest(ctx context.Context, id string, event RevokeRequest) Outcome {
	if !e.upstream.Connected() {
		e.logger.Warn("no upstream CA link, ignoring revocation request",
			"event_id", id,
			"tenant_id", event.TenantID,
		)
		return OutcomeHandled
	}

	if err := e.upstream.RequestRevocation(ctx, event.CSR); err != nil {
		e.logger.Error("failed to forward revocation request upstream",
			"event_id", id,
			"tenant_id", event.TenantID,
			"error", err,
		)
	}
	return OutcomeHandled
}

func (e *Engine) handleCertificateAvailable(ctx context.Context, id string, event CertificateAvailable) Outcome {
	outstanding, err := e.channel.Outstanding(ctx)
	if err != nil {
		e.logger.Error("could not snapshot outstanding requests, dropping issued certificate",
			"event_id", id,
			"error", err,
		)
		metrics.CertificatesDroppedTotal.WithLabelValues("snapshot_failed").Inc()
		return OutcomeHandled
	}

	tenantID, err := ResolveTenant(event.Certificate.CSR, outstanding)
	if err != nil {
		reason := "no_matching_tenant"
		if errors.Is(err, ErrAmbiguousMatch) {
			reason = "ambiguous_match"
		}
		e.logger.Error("could not resolve tenant for issued certificate, dropping it",
			"event_id", id,
			"error", err,
		)
		metrics.CertificatesDroppedTotal.WithLabelValues(reason).Inc()
		return OutcomeHandled
	}

	if err := e.channel.PublishCertificate(ctx, tenantID, event.Certificate); err != nil {
		e.logger.Error("failed to publish issued certificate to tenant",
			"event_id", id,
			"tenant_id", tenantID,
			"error", err,
		)
		metrics.CertificatesDroppedTotal.WithLabelValues("publish_failed").Inc()
		return OutcomeHandled
	}

	metrics.CertificatesRelayedTotal.Inc()
	e.logger.Info("issued certificate delivered", "event_id", id, "tenant_id", tenantID)
	return OutcomeHandled
}

func (e *Engine) handleCertificateInvalidated(ctx context.Context, id string, event CertificateInvalidated) Outcome {
	if event.Reason == ReasonExpired {
		// Expiry is the requirer's problem; it renews on its own schedule.
		e.logger.Debug("ignoring expired certificate invalidation", "event_id", id)
		return OutcomeHandled
	}

	if err := e.channel.RemoveCertificate(ctx, event.Certificate); err != nil {
		e.logger.Error("failed to remove invalidated certificate from tenant channel",
			"event_id", id,
			"error", err,
		)
	}
	return OutcomeHandled
}

func (e *Engine) handleAllInvalidated(ctx context.Context, id string) Outcome {
	if err := e.channel.RevokeAll(ctx); err != nil {
		e.logger.Error("failed to revoke all certificates on tenant channel",
			"event_id", id,
			"error", err,
		)
	}
	return OutcomeHandled
}
