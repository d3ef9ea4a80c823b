package admission

import (
	"context"
	"log/slog"

	"tls-constraints/internal/metrics"
	"tls-constraints/internal/models"
)

// Decision is the outcome of running a CSR through the filter chain. DeniedBy
// names every filter that rejected the request; it is diagnostic detail for
// the operator and is never surfaced to the requesting tenant.
type Decision struct {
	Allowed  bool
	DeniedBy []string
}

// Controller runs the active filter chain against incoming CSRs.
type Controller struct {
	filters []Filter
	logger  *slog.Logger
}

func NewController(filters []Filter, logger *slog.Logger) *Controller {
	return &Controller{
		filters: filters,
		logger:  logger,
	}
}

// Decide evaluates every active filter against the CSR and, when all accept,
// commits each filter's side effects exactly once, in chain order. On denial
// no commit runs. The outstanding snapshot must already include the incoming
// request. A commit failure flips the outcome to denied: a CSR must never be
// forwarded on a half-recorded claim.
func (c *Controller) Decide(ctx context.Context, csrPEM []byte, tenantID string, outstanding []models.OutstandingRequest) Decision {
	var deniedBy []string
	for _, filter := range c.filters {
		if !filter.Evaluate(ctx, csrPEM, tenantID, outstanding) {
			deniedBy = append(deniedBy, filter.Name())
			metrics.FilterDenialsTotal.WithLabelValues(filter.Name()).Inc()
		}
	}

	if len(deniedBy) > 0 {
		metrics.AdmissionDecisionsTotal.WithLabelValues(metrics.DecisionOutcomeDenied).Inc()
		return Decision{Allowed: false, DeniedBy: deniedBy}
	}

	for _, filter := range c.filters {
		if err := filter.Commit(ctx, csrPEM, tenantID); err != nil {
			c.logger.Error("failed to commit admission side effects, denying request",
				"filter", filter.Name(),
				"tenant_id", tenantID,
				"error", err,
			)
			metrics.AdmissionDecisionsTotal.WithLabelValues(metrics.DecisionOutcomeDenied).Inc()
			return Decision{Allowed: false, DeniedBy: []string{filter.Name()}}
		}
	}

	metrics.AdmissionDecisionsTotal.WithLabelValues(metrics.DecisionOutcomeAllowed).Inc()
	return Decision{Allowed: true}
}
