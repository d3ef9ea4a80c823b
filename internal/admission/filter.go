// Package admission decides whether a tenant's certificate signing request
// may be forwarded to the upstream CA. Policy lives in composable filters; a
// CSR is admitted only when every active filter agrees.
package admission

import (
	"context"
	"log/slog"

	"tls-constraints/internal/config"
	"tls-constraints/internal/models"
	"tls-constraints/internal/reservation"
)

// Filter is a single admission policy.
//
// Evaluate is a pure predicate: it may read shared state such as the
// reservation table but must not mutate anything. Commit records side effects
// and runs only after every filter in the chain has accepted the CSR.
//
// The outstanding snapshot already contains the incoming request; filters
// counting a tenant's requests must account for that.
type Filter interface {
	Name() string
	Evaluate(ctx context.Context, csrPEM []byte, tenantID string, outstanding []models.OutstandingRequest) bool
	Commit(ctx context.Context, csrPEM []byte, tenantID string) error
}

// NewChain builds the active filter chain from configuration. Order is fixed:
// the cheap outstanding-count check runs before the reservation lookup.
func NewChain(cfg *config.Config, store reservation.Store, logger *slog.Logger) []Filter {
	var filters []Filter
	if cfg.Filters.SingleOutstandingRequest {
		filters = append(filters, NewSingleOutstandingRequest(logger))
	}
	if cfg.Filters.FirstClaimWins {
		filters = append(filters, NewFirstClaimWins(store, logger))
	}

	return filters
}
