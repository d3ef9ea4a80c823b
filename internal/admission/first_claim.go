package admission

import (
	"context"
	"log/slog"

	"tls-constraints/internal/csr"
	"tls-constraints/internal/models"
	"tls-constraints/internal/reservation"
)

const FilterNameFirstClaimWins = "first-claim-wins"

// FirstClaimWins grants each identifier (SAN DNS name, SAN IP, SAN OID) to
// the first tenant that gets a CSR admitted for it; every other tenant is
// denied that identifier until the table is externally reset. Subject common
// names are checked against all three identifier kinds, since a CN could
// collide with any of them, but only SAN values are ever recorded.
type FirstClaimWins struct {
	store  reservation.Store
	logger *slog.Logger
}

func NewFirstClaimWins(store reservation.Store, logger *slog.Logger) *FirstClaimWins {
	return &FirstClaimWins{
		store:  store,
		logger: logger,
	}
}

func (f *FirstClaimWins) Name() string {
	return FilterNameFirstClaimWins
}

func (f *FirstClaimWins) Evaluate(ctx context.Context, csrPEM []byte, tenantID string, outstanding []models.OutstandingRequest) bool {
	if f.store == nil {
		f.logger.Error("first-claim-wins cannot access the reservation store, denying all CSRs until it is available")
		return false
	}

	details, err := csr.Parse(csrPEM)
	if err != nil {
		f.logger.Warn("denied CSR: request could not be parsed", "tenant_id", tenantID, "error", err)
		return false
	}

	table, err := f.store.Get(ctx)
	if err != nil {
		// Fail closed: without the shared table there is no way to know who
		// owns an identifier.
		f.logger.Error("first-claim-wins cannot read the reservation table, denying all CSRs until it is available",
			"error", err,
		)
		return false
	}

	checks := []struct {
		kind   reservation.Kind
		label  string
		values []string
	}{
		{reservation.KindDNS, "DNS", append(details.DNSNames, details.CommonNames...)},
		{reservation.KindIP, "IP", append(details.IPAddresses, details.CommonNames...)},
		{reservation.KindOID, "OID", append(details.OIDs, details.CommonNames...)},
	}

	for _, check := range checks {
		for _, value := range check.values {
			owner, reserved := table.Owner(check.kind, value)
			if reserved && owner != tenantID {
				f.logger.Warn("denied CSR: identifier already requested by another tenant",
					"tenant_id", tenantID,
					"kind", check.label,
					"identifier", value,
				)
				return false
			}
		}
	}

	return true
}

// Commit reserves the admitted CSR's SAN identifiers for the tenant, merging
// with existing unrelated entries. Re-claiming by the same owner is a no-op.
func (f *FirstClaimWins) Commit(ctx context.Context, csrPEM []byte, tenantID string) error {
	details, err := csr.Parse(csrPEM)
	if err != nil {
		return err
	}

	return reservation.Reserve(ctx, f.store, details, tenantID)
}
