package admission

import (
	"context"
	"log/slog"

	"tls-constraints/internal/models"
)

const FilterNameSingleOutstandingRequest = "single-outstanding-request"

// SingleOutstandingRequest allows at most one pending CSR per tenant.
// Resubmitting the identical CSR (a renewal) occupies the same outstanding
// slot and passes; a second distinct CSR does not.
type SingleOutstandingRequest struct {
	logger *slog.Logger
}

func NewSingleOutstandingRequest(logger *slog.Logger) *SingleOutstandingRequest {
	return &SingleOutstandingRequest{logger: logger}
}

func (f *SingleOutstandingRequest) Name() string {
	return FilterNameSingleOutstandingRequest
}

func (f *SingleOutstandingRequest) Evaluate(ctx context.Context, csrPEM []byte, tenantID string, outstanding []models.OutstandingRequest) bool {
	count := 0
	for _, req := range outstanding {
		if req.TenantID == tenantID {
			count++
		}
	}
	// The snapshot includes the incoming CSR, so more than one entry means a
	// second concurrent request.
	if count > 1 {
		f.logger.Warn("denied CSR: only a single outstanding request is allowed per tenant",
			"tenant_id", tenantID,
		)
		return false
	}
	return true
}

func (f *SingleOutstandingRequest) Commit(ctx context.Context, csrPEM []byte, tenantID string) error {
	return nil
}
